package scoring

import (
	"context"
	"math"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/resume"
)

const fullGPA = 4.0

// Education scores the strongest education entry.
func (e *Engine) Education(ctx context.Context, items []resume.Education) float64 {
	return bestOf(items, func(item resume.Education) float64 {
		return e.education(ctx, item)
	})
}

func (e *Engine) education(ctx context.Context, item resume.Education) float64 {
	r := e.rules.Education

	score := r.School * e.reputation(ctx, e.refs.Universities, ai.University, item.School)

	if technicalMajor.matches(item.Major) {
		score += r.Major
	}
	if resume.Known(item.Minor) && technicalMajor.matches(item.Minor) {
		score += r.Minor
	}
	if gpa, ok := item.GPAOnFourScale(); ok {
		score += r.GPA * math.Min(gpa/fullGPA, 1)
	}

	return score + r.ClassYearScore(item.ClassYear)
}
