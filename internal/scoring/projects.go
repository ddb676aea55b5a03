package scoring

import (
	"context"
	"strings"

	"github.com/spigell/cv-scorer/internal/resume"
)

// Projects scores the strongest project. No inference is involved.
func (e *Engine) Projects(_ context.Context, items []resume.Project) float64 {
	return bestOf(items, e.project)
}

func (e *Engine) project(item resume.Project) float64 {
	r := e.rules.Projects

	score := 0.0
	if resume.Known(item.Name) {
		score += r.Name
	}
	if present(item.Link) {
		score += r.Link
	}
	if present(item.Tech) {
		score += r.Tech
	}
	if present(item.Duration) {
		score += r.Duration
	}

	return score + r.Description*descriptionShare(item.Description)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
