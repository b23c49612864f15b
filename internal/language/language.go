package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const Undetermined = "und"

// ISO 639-2/B codes and their terminology counterparts
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

// full word forms accepted in configuration
var words = map[string]string{
	"english":    "eng",
	"spanish":    "spa",
	"french":     "fra",
	"german":     "deu",
	"italian":    "ita",
	"portuguese": "por",
	"japanese":   "jpn",
	"korean":     "kor",
	"chinese":    "zho",
	"russian":    "rus",
	"ukrainian":  "ukr",
	"arabic":     "ara",
	"hindi":      "hin",
	"dutch":      "nld",
	"polish":     "pol",
	"swedish":    "swe",
	"danish":     "dan",
	"norwegian":  "nor",
	"finnish":    "fin",
}

// ToISO3 converts a 2-letter, 3-letter (terminology or bibliographic) code or
// an English word to the ISO 639-2/T code. Unrecognized input yields "und".
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == Undetermined {
		return Undetermined
	}
	if mapped, ok := words[code]; ok {
		return mapped
	}
	if mapped, ok := bibliographic[code]; ok {
		return mapped
	}

	base, err := language.ParseBase(code)
	if err != nil {
		return Undetermined
	}
	return base.ISO3()
}

// IsKnown reports whether code names a real language.
func IsKnown(code string) bool {
	return ToISO3(code) != Undetermined
}

// Matches reports whether a and b name the same known language, so "fr",
// "fre" and "fra" all match each other.
func Matches(a, b string) bool {
	codeA := ToISO3(a)
	return codeA != Undetermined && codeA == ToISO3(b)
}

// DisplayName returns the English name of the language, "Unknown" for empty
// or undetermined input and the uppercased code when no name is known.
func DisplayName(code string) string {
	iso3 := ToISO3(code)
	if iso3 == Undetermined {
		if strings.TrimSpace(code) == "" || strings.EqualFold(strings.TrimSpace(code), Undetermined) {
			return "Unknown"
		}
		return strings.ToUpper(strings.TrimSpace(code))
	}

	base, err := language.ParseBase(iso3)
	if err == nil {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(iso3)
}

// ExtractFromTags returns the raw language value of stream metadata tags.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
