package subtitle

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex  = regexp.MustCompile(`(?i)<[^>]*>`)
	overrideRegex = regexp.MustCompile(`\{[^}]*\}`)
)

// StripFormatting returns a copy of sub with <i>-style tags and {\an8}-style
// override blocks removed from every line. Lines left empty are dropped, and
// so are elements left without lines; the remaining elements are renumbered.
func StripFormatting(sub *Subtitles) *Subtitles {
	result := &Subtitles{Elements: make([]Element, 0, len(sub.Elements))}
	for _, element := range sub.Elements {
		var lines []Line
		for _, line := range element.Lines {
			text := StripLineFormatting(line.Text)
			if strings.TrimSpace(text) == "" {
				continue
			}
			lines = append(lines, Line{Text: text, Source: line.Source})
		}
		if len(lines) == 0 {
			continue
		}
		element.Lines = lines
		element.Number = len(result.Elements) + 1
		result.Elements = append(result.Elements, element)
	}
	return result
}

// removes formatting markup from a single line of text
func StripLineFormatting(text string) string {
	text = overrideRegex.ReplaceAllString(text, "")
	text = htmlTagRegex.ReplaceAllString(text, "")
	return text
}
