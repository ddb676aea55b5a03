package normalize

import (
	"regexp"
	"strconv"
)

// DefaultDurationMonths is assumed when a duration names fewer than two dates.
const DefaultDurationMonths = 12

// Four-digit numbers outside this range are counts, not years.
const (
	minYear = 1900
	maxYear = 2100
)

var dateTokenRe = regexp.MustCompile(`\b(\d{4})(?:-(\d{2}))?\b`)

// DurationMonths extracts "YYYY" or "YYYY-MM" tokens from text and returns the
// month difference between the first two. A missing month counts as January.
// Text with fewer than two dated tokens, or an invalid month, yields DefaultDurationMonths.
func DurationMonths(text string) int {
	var dates [][2]int
	for _, token := range dateTokenRe.FindAllStringSubmatch(text, -1) {
		year, month, ok := parseDateToken(token)
		if !ok {
			return DefaultDurationMonths
		}
		if year < minYear || year > maxYear {
			continue
		}
		if dates = append(dates, [2]int{year, month}); len(dates) == 2 {
			break
		}
	}
	if len(dates) < 2 {
		return DefaultDurationMonths
	}

	start, end := dates[0], dates[1]
	months := (end[0]-start[0])*12 + (end[1] - start[1])
	if months < 0 {
		return 0
	}
	return months
}

func parseDateToken(token []string) (year, month int, ok bool) {
	year, err := strconv.Atoi(token[1])
	if err != nil {
		return 0, 0, false
	}

	month = 1
	if token[2] != "" {
		month, err = strconv.Atoi(token[2])
		if err != nil || month < 1 || month > 12 {
			return 0, 0, false
		}
	}

	return year, month, true
}
