package dump

import "regexp"

var (
	preLoadPattern  = regexp.MustCompile(`//\^([\s\S]*)\^//`)
	postLoadPattern = regexp.MustCompile(`//\$([\s\S]*)`)
)

// ExtractModifiers strips Verax-dialect pre/post-load modifier annotations
// from a raw data value, in order: pre-load first, then post-load on the
// result. Modifier text is returned verbatim; it is never evaluated.
func ExtractModifiers(value string) (remaining string, preLoadMods []string, postLoadMod string, hasPostMod bool) {
	remaining = value

	if loc := matchModifier(remaining, preLoadPattern); loc != nil {
		preLoadMods = append(preLoadMods, remaining[loc[2]:loc[3]])
		remaining = remaining[:loc[0]] + remaining[loc[1]:]
	}

	if loc := matchModifier(remaining, postLoadPattern); loc != nil {
		postLoadMod = remaining[loc[2]:loc[3]]
		hasPostMod = true
		remaining = remaining[:loc[0]] + remaining[loc[1]:]
	}

	return remaining, preLoadMods, postLoadMod, hasPostMod
}

// matchModifier returns the submatch index slice [fullStart, fullEnd,
// groupStart, groupEnd] for pattern in value, or nil if value contains no
// "//" marker or the pattern does not match.
func matchModifier(value string, pattern *regexp.Regexp) []int {
	if !containsMarker(value) {
		return nil
	}
	loc := pattern.FindStringSubmatchIndex(value)
	if loc == nil || len(loc) < 4 {
		return nil
	}
	return loc
}

func containsMarker(value string) bool {
	for i := 0; i+1 < len(value); i++ {
		if value[i] == '/' && value[i+1] == '/' {
			return true
		}
	}
	return false
}
