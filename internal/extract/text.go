package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize collapses runs of horizontal whitespace, trims each line and
// keeps at most one blank line between paragraphs.
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var b strings.Builder
	blank := 0
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, unicode.IsSpace), " ")
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return b.String()
}

// Truncate cuts text to at most maxChars runes. maxChars <= 0 disables it.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars])
}
