package scoring

import (
	"context"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/normalize"
	"github.com/spigell/cv-scorer/internal/resume"
)

// Experience scores the strongest professional experience entry.
func (e *Engine) Experience(ctx context.Context, items []resume.Experience) float64 {
	return bestOf(items, func(item resume.Experience) float64 {
		return e.experience(ctx, item)
	})
}

func (e *Engine) experience(ctx context.Context, item resume.Experience) float64 {
	r := e.rules.Experience

	score := r.Company * e.reputation(ctx, e.refs.Companies, ai.Company, item.Company)

	if resume.Known(item.Location) {
		score += r.Location
	}
	if technicalPosition.matches(item.Position) {
		score += r.Position
	}
	if seniorityTerms.matches(item.Seniority) {
		score += r.Seniority
	}
	// Unparsable durations count as the default tenure.
	if normalize.DurationMonths(item.Duration) >= r.DurationThreshold {
		score += r.Duration
	}

	return score + r.Description*descriptionShare(item.Description)
}
