package resume

import (
	"regexp"
	"sort"
	"strings"
)

// BiasKeywords are demographic terms that should not influence an evaluation.
var BiasKeywords = []string{"male", "female", "asian", "black", "white"}

var biasRe = regexp.MustCompile(`(?i)\b(` + strings.Join(BiasKeywords, "|") + `)\b`)

// BiasTerms returns the demographic keywords found in the free text of doc,
// lower-cased, sorted and without duplicates. The result is informational.
func BiasTerms(doc *Document) []string {
	if doc == nil {
		return nil
	}

	found := make(map[string]struct{})
	for _, text := range freeText(doc) {
		for _, match := range biasRe.FindAllString(text, -1) {
			found[strings.ToLower(match)] = struct{}{}
		}
	}

	terms := make([]string, 0, len(found))
	for term := range found {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func freeText(doc *Document) []string {
	texts := []string{doc.Intro}
	for _, e := range doc.ProfessionalExperience {
		texts = append(texts, e.Position, e.Description)
	}
	for _, p := range doc.Projects {
		texts = append(texts, p.Description)
	}
	for _, a := range doc.Awards {
		texts = append(texts, a.Description)
	}
	for _, s := range doc.Skills {
		texts = append(texts, s.Name)
		texts = append(texts, s.List...)
	}
	return texts
}
