package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/cv-scorer/internal/rules"
)

// Status is the verdict derived from a total score.
type Status string

const (
	StatusPass     Status = "Pass"
	StatusConsider Status = "Consider"
	StatusFail     Status = "Fail"
)

// Result is the scored outcome of one document.
type Result struct {
	Scores         map[rules.Category]float64 `json:"scores"`
	WeightedScores map[rules.Category]float64 `json:"weighted_scores"`
	TotalScore     float64                    `json:"total_score"`
	Status         Status                     `json:"status"`
}

// Breakdown returns the raw category scores keyed by category name.
func (r *Result) Breakdown() map[string]float64 {
	out := make(map[string]float64, len(r.Scores))
	for c, v := range r.Scores {
		out[string(c)] = v
	}
	return out
}

// Aggregate weights raw category scores and classifies the total. Categories
// missing from raw count as 0. An invalid rule set, unknown categories and
// scores outside [0, 100] are rejected with rules.ErrInvalidRules.
func Aggregate(rs *rules.RuleSet, raw map[rules.Category]float64) (*Result, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	for c, v := range raw {
		if _, ok := rs.Weights.Of(c); !ok {
			return nil, fmt.Errorf("%w: unknown category %q", rules.ErrInvalidRules, c)
		}
		if math.IsNaN(v) || v < 0 || v > maxScore {
			return nil, fmt.Errorf("%w: %s score %v outside 0-%g", rules.ErrInvalidRules, c, v, maxScore)
		}
	}

	result := &Result{
		Scores:         make(map[rules.Category]float64, len(rules.Categories())),
		WeightedScores: make(map[rules.Category]float64, len(rules.Categories())),
	}

	// Summation follows the fixed category order so totals are reproducible.
	for _, c := range rules.Categories() {
		weight, _ := rs.Weights.Of(c)
		weighted := raw[c] * weight / 100

		result.Scores[c] = raw[c]
		result.WeightedScores[c] = weighted
		result.TotalScore += weighted
	}

	result.Status = Classify(rs, result.TotalScore)
	return result, nil
}

// Classify maps a total to a status: at or above pass is Pass, at or above
// consider is Consider, anything lower is Fail.
func Classify(rs *rules.RuleSet, total float64) Status {
	switch {
	case total >= rs.Thresholds.Pass:
		return StatusPass
	case total >= rs.Thresholds.Consider:
		return StatusConsider
	default:
		return StatusFail
	}
}
