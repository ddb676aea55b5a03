package scoring

import (
	"context"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/resume"
)

// Awards scores the strongest award.
func (e *Engine) Awards(ctx context.Context, items []resume.Award) float64 {
	return bestOf(items, func(item resume.Award) float64 {
		return e.award(ctx, item)
	})
}

func (e *Engine) award(ctx context.Context, item resume.Award) float64 {
	r := e.rules.Awards

	score := r.Contest * e.reputation(ctx, e.refs.Contests, ai.Contest, item.Contest)

	if resume.Known(item.Prize) {
		score += r.Prize * tiered(prizeTiers, item.Prize, otherPrize) / maxPrizeTier
	}
	if present(item.Role) && technicalRole.matches(item.Role) {
		score += r.Role
	}
	if present(item.Link) {
		score += r.Link
	}
	if resume.Known(item.Time) {
		score += r.Time
	}

	return score + r.Description*descriptionShare(item.Description)
}
