// Package normalize turns free-text résumé fields into comparable values:
// GPA numbers, employment durations and organization names.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// ScaleFour is the 4-point GPA scale used for scoring.
	ScaleFour = "4"
	// ScaleTen is the 10-point GPA scale common in Vietnamese transcripts.
	ScaleTen = "10"
)

var (
	// decimalRe admits plain decimal literals only. ParseFloat alone would
	// also take hex floats and "inf".
	decimalRe     = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:e[+-]?\d+)?$`)
	gradeTokenRe  = regexp.MustCompile(`grade ?\d+:?\s*(\d+\.?\d*)`)
	bareNumberRe  = regexp.MustCompile(`^\d+\.?\d*$`)
	firstNumberRe = regexp.MustCompile(`(\d+\.?\d*)`)
	listSepRe     = regexp.MustCompile(`[,;]`)
)

// GPA interprets a free-text GPA value. It accepts a plain number, several
// "Grade N: value" tokens, a comma/semicolon separated list of numbers, or any
// text holding a number. The second return is false when nothing numeric is found.
func GPA(text string) (float64, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}

	if decimalRe.MatchString(text) {
		// An overflowing literal is a value, just not a usable one.
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	if matches := gradeTokenRe.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		values := make([]float64, 0, len(matches))
		for _, m := range matches {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			return round2(mean(values)), true
		}
	}

	values := make([]float64, 0)
	for _, part := range listSepRe.Split(text, -1) {
		part = strings.TrimSpace(part)
		if !bareNumberRe.MatchString(part) {
			continue
		}
		if v, err := strconv.ParseFloat(part, 64); err == nil {
			values = append(values, v)
		}
	}
	if len(values) > 0 {
		return round2(mean(values)), true
	}

	if m := firstNumberRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}

	return 0, false
}

// ConvertScale maps a GPA on the given scale to the 4-point scale.
// Only the 10-point scale is converted; other values are returned unchanged.
func ConvertScale(value float64, scale string) float64 {
	if strings.TrimSpace(scale) == ScaleTen {
		return round2(value * 4 / 10)
	}
	return value
}

// GPAOnFourScale normalizes text and returns it on the 4-point scale.
// declared may be ScaleFour, ScaleTen or empty, in which case the scale is
// inferred from the value. Values outside the scale are reported as absent.
func GPAOnFourScale(text, declared string) (float64, bool) {
	value, ok := GPA(text)
	if !ok || value < 0 {
		return 0, false
	}

	switch strings.TrimSpace(declared) {
	case ScaleFour:
		if value > 4 {
			return 0, false
		}
		return value, true
	case ScaleTen:
		if value > 10 {
			return 0, false
		}
		return ConvertScale(value, ScaleTen), true
	}

	switch {
	case value <= 4:
		return value, true
	case value <= 10:
		return ConvertScale(value, ScaleTen), true
	default:
		return 0, false
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
