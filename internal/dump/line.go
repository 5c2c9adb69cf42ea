package dump

import (
	"bufio"
	"io"
	"strings"
)

// Line is one folded logical line: continuation lines already joined, with
// the first physical line number it started on.
type Line struct {
	Text   string
	Number int
}

// LineFolder unfolds continuation lines from a dump into logical lines.
// Empty lines separate records; a line starting with a space or tab
// continues the previous logical line, trimmed and appended with no
// separator. Trailing whitespace is stripped from every physical line.
type LineFolder struct {
	scanner  *bufio.Scanner
	saved    string
	hasSaved bool
	number   int
}

// NewLineFolder wraps r, reading it line by line.
func NewLineFolder(r io.Reader) *LineFolder {
	return &LineFolder{scanner: bufio.NewScanner(r)}
}

// Next returns the next logical line, or ok=false at end of input.
func (f *LineFolder) Next() (Line, bool) {
	var b strings.Builder
	firstLine := 0

	if f.hasSaved {
		b.WriteString(f.saved)
		f.hasSaved = false
		f.number++
		firstLine = f.number
	} else {
		for f.scanner.Scan() {
			f.number++
			raw := rtrimSpace(f.scanner.Text())
			if raw != "" {
				b.WriteString(raw)
				firstLine = f.number
				break
			}
		}
	}

	for f.scanner.Scan() {
		raw := f.scanner.Text()
		if raw == "" {
			f.number++
			continue
		}
		if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
			b.WriteString(strings.TrimSpace(raw))
			f.number++
			continue
		}
		f.saved = strings.TrimSpace(raw)
		f.hasSaved = true
		break
	}

	if b.Len() == 0 {
		return Line{}, false
	}
	return Line{Text: b.String(), Number: firstLine}, true
}

func rtrimSpace(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
