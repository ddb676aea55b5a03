package scoring

import (
	"context"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/resume"
)

// Certifications scores the strongest certification. Names outside the known
// tiers are estimated.
func (e *Engine) Certifications(ctx context.Context, items []resume.Certification) float64 {
	return bestOf(items, func(item resume.Certification) float64 {
		return e.certification(ctx, item)
	})
}

func (e *Engine) certification(ctx context.Context, item resume.Certification) float64 {
	r := e.rules.Certifications

	score := 0.0
	if resume.Known(item.Name) {
		points := tiered(certificationNameTiers, item.Name, unknownCertification)
		relevance := points / maxCertificationTier
		if points == unknownCertification {
			relevance = e.estimate(ctx, ai.Certification, item.Name)
		}
		score += r.Name * relevance
	}

	if present(item.Org) {
		score += r.Org * tiered(certificationOrgTiers, item.Org, otherOrg) / maxOrgTier
	}
	if present(item.Link) {
		score += r.Link
	}

	return score
}
