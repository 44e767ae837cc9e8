// Package language resolves human language names to ISO 639-1 codes for
// output file naming.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// codes maps common language names and variations straight to their ISO
// 639-1 code. Checked before the x/text parser because names like
// "Brazilian" or "Farsi" are colloquial rather than canonical.
var codes = map[string]string{
	"chinese":    "zh",
	"mandarin":   "zh",
	"spanish":    "es",
	"español":    "es",
	"english":    "en",
	"hindi":      "hi",
	"arabic":     "ar",
	"portuguese": "pt",
	"brazilian":  "pt",
	"bengali":    "bn",
	"russian":    "ru",
	"japanese":   "ja",
	"punjabi":    "pa",
	"german":     "de",
	"deutsch":    "de",
	"javanese":   "jv",
	"korean":     "ko",
	"french":     "fr",
	"français":   "fr",
	"turkish":    "tr",
	"vietnamese": "vi",
	"thai":       "th",
	"italian":    "it",
	"italiano":   "it",
	"persian":    "fa",
	"farsi":      "fa",
	"polish":     "pl",
	"polski":     "pl",
	"romanian":   "ro",
	"dutch":      "nl",
	"greek":      "el",
	"czech":      "cs",
	"swedish":    "sv",
	"hebrew":     "he",
	"danish":     "da",
	"finnish":    "fi",
	"hungarian":  "hu",
	"norwegian":  "no",
}

// Code converts a language name or tag to its ISO 639-1 code.
//
// Lookup order: the common-name table, then x/text tag parsing (which
// handles BCP 47 inputs like "pt-BR"), then the first two letters of the
// normalized name as a last resort.
func Code(name string) string {
	normalized := normalize(name)

	if code, ok := codes[normalized]; ok {
		return code
	}

	if tag, err := language.Parse(strings.TrimSpace(name)); err == nil {
		if base, conf := tag.Base(); conf >= language.High {
			return base.String()
		}
	}

	if runes := []rune(normalized); len(runes) >= 2 {
		return string(runes[:2])
	}
	return normalized
}

// normalize lowercases and collapses punctuation to single spaces.
func normalize(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastSpace := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127:
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
