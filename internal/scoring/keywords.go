package scoring

import (
	"regexp"
	"strings"
)

// keywordSet matches any of its words or phrases, ignoring case.
type keywordSet struct {
	re *regexp.Regexp
}

// newKeywordSet matches whole words only. Short tool names such as "go"
// need both edges anchored.
func newKeywordSet(words ...string) keywordSet {
	return keywordSet{re: compileKeywords(words, `\b`)}
}

// newStemSet anchors the leading edge only, so "cyber" matches
// "Cybersecurity" while "ai" still misses "maintain".
func newStemSet(words ...string) keywordSet {
	return keywordSet{re: compileKeywords(words, "")}
}

func compileKeywords(words []string, trailing string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)` + trailing)
}

func (k keywordSet) matches(text string) bool {
	return k.re.MatchString(text)
}

// tier awards points when any of its keywords appear.
type tier struct {
	keywords keywordSet
	points   float64
}

// tiered returns the points of the first matching tier, or fallback.
func tiered(tiers []tier, text string, fallback float64) float64 {
	for _, t := range tiers {
		if t.keywords.matches(text) {
			return t.points
		}
	}
	return fallback
}

var (
	technicalMajor = newStemSet(
		"computer", "software", "data", "information", "cyber", "cloud",
		"web", "ai", "machine learning", "analytics",
	)
	technicalPosition = newStemSet(
		"software", "frontend", "backend", "web", "mobile", "full stack",
		"data", "machine learning", "ai", "devops",
	)
	seniorityTerms = newStemSet("senior", "lead", "manager", "principal", "staff")
	technicalRole  = newStemSet("developer", "engineer", "data scientist", "analyst")
)

// descriptionGroups are the heuristics a description is rated on: clarity,
// impact and tooling. Each group counts once.
var descriptionGroups = []keywordSet{
	newKeywordSet("developed", "designed", "built", "implemented"),
	newKeywordSet("reduced", "improved", "increased", "optimized"),
	newKeywordSet("python", "sql", "go", "java", "docker", "kubernetes", "aws"),
}

// descriptionShare is the fraction of description groups text satisfies.
func descriptionShare(text string) float64 {
	matched := 0
	for _, group := range descriptionGroups {
		if group.matches(text) {
			matched++
		}
	}
	return float64(matched) / float64(len(descriptionGroups))
}

const (
	maxPrizeTier = 25
	otherPrize   = 10

	maxCertificationTier = 50
	// unknownCertification is the name tier that asks for an estimate.
	unknownCertification = 10

	maxOrgTier = 40
	otherOrg   = 10
)

var prizeTiers = []tier{
	{keywords: newStemSet("1st", "first", "gold", "champion", "winner"), points: 25},
	{keywords: newStemSet("2nd", "second", "silver", "runner-up", "runner up"), points: 20},
	{keywords: newStemSet("3rd", "third", "bronze"), points: 15},
}

var certificationNameTiers = []tier{
	{keywords: newStemSet("aws", "google", "microsoft"), points: 50},
	{keywords: newStemSet("data", "cloud", "ai"), points: 30},
}

var certificationOrgTiers = []tier{
	{keywords: newStemSet("aws", "amazon", "google", "microsoft"), points: 40},
	{keywords: newStemSet("udemy", "coursera", "linkedin"), points: 25},
}
