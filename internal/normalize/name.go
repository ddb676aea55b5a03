package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// universitySynonyms maps known renderings of an institution to the key used
// in the reputation table.
var universitySynonyms = map[string]string{
	"Đại học Bách Khoa Hà Nội":                   "HUST",
	"Đại học Bách Khoa":                          "HUST",
	"Bách Khoa Hà Nội":                           "HUST",
	"Hanoi University of Science and Technology": "HUST",
	"HUST":                                       "HUST",
	"RMIT University Vietnam":                    "RMIT",
	"RMIT":                                       "RMIT",
	"VinUniversity":                              "VinUni",
	"VinUni":                                     "VinUni",
	"Đại học Quốc gia Hà Nội":                    "VNU",
	"Vietnam National University":                "VNU",
	"Đại học FPT":                                "FPT University",
	"FPT University":                             "FPT University",
	"Massachusetts Institute of Technology":      "MIT",
	"Đại học Bách Khoa TP.HCM":                   "HCMUT",
	"Ho Chi Minh City University of Technology":  "HCMUT",
}

var canonicalUniversities = buildSynonymIndex(universitySynonyms)

// Text strips diacritics, lower-cases and collapses whitespace.
func Text(s string) string {
	// A transformer chain carries state, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	// đ has no decomposition and would survive the mark removal.
	out = strings.Map(func(r rune) rune {
		switch r {
		case 'đ', 'Đ':
			return 'd'
		}
		return r
	}, out)

	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// UniversityName returns the canonical key for a known university rendering,
// or the normalized text when the name has no synonym entry.
func UniversityName(s string) string {
	normalized := Text(s)
	if canonical, ok := canonicalUniversities[normalized]; ok {
		return canonical
	}
	return normalized
}

func buildSynonymIndex(synonyms map[string]string) map[string]string {
	index := make(map[string]string, len(synonyms))
	for variant, canonical := range synonyms {
		index[Text(variant)] = canonical
	}
	return index
}
