package dump

import (
	"fmt"
	"strings"
)

// Property is a parsed NAME = VALUE pair from one logical dump line.
type Property struct {
	Name  string
	Value string
	Line  int
}

// PropertyError reports a malformed logical line. The loader skips the
// offending line and continues; these errors never abort the dump scan.
type PropertyError struct {
	Kind string // "MissingName" or "MissingValue"
	Line int
}

func (e *PropertyError) Error() string {
	switch e.Kind {
	case "MissingName":
		return fmt.Sprintf("line %d: missing name", e.Line)
	case "MissingValue":
		return fmt.Sprintf("line %d: missing value", e.Line)
	default:
		return fmt.Sprintf("line %d: malformed property", e.Line)
	}
}

// ParseProperty splits one folded logical line into a Property. The first
// '=' splits name/value; the name is trimmed of surrounding spaces. The
// value is the remainder after the first '=', with one leading '=' and
// surrounding spaces trimmed.
func ParseProperty(line Line) (Property, error) {
	idx := strings.IndexByte(line.Text, '=')
	if idx <= 0 {
		return Property{}, &PropertyError{Kind: "MissingName", Line: line.Number}
	}

	name := strings.Trim(line.Text[:idx], " ")
	rest := line.Text[idx:]
	rest = strings.TrimPrefix(rest, "=")
	rest = strings.Trim(rest, " ")
	if rest == "" {
		return Property{}, &PropertyError{Kind: "MissingValue", Line: line.Number}
	}

	return Property{Name: name, Value: rest, Line: line.Number}, nil
}
