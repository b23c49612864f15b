package subtitle

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// detection stops sampling once this much text was collected
const languageSampleSize = 20000

var sdhRegex = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|♪`)

// whatlanggo codes that containers spell differently
var containerLanguageCodes = map[string]string{
	"cmn": "zho",
	"nob": "nor",
}

// DetectLanguage guesses the ISO 639-2 language of the track's text.
// It returns "" when the guess is not reliable.
func DetectLanguage(sub *Subtitles) string {
	if sub == nil {
		return ""
	}

	var sb strings.Builder
	for _, element := range sub.Elements {
		for _, line := range element.Lines {
			text := sdhRegex.ReplaceAllString(StripLineFormatting(line.Text), "")
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			sb.WriteString(text)
			sb.WriteString(" ")
		}
		if sb.Len() >= languageSampleSize {
			break
		}
	}

	sample := strings.TrimSpace(sb.String())
	if sample == "" {
		return ""
	}

	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return ""
	}

	code := info.Lang.Iso6393()
	if mapped, ok := containerLanguageCodes[code]; ok {
		return mapped
	}
	return code
}
