// Package scoring turns a résumé into per-category scores, a weighted total
// and a verdict. Category scorers credit the strongest single entry of a
// section; the aggregator applies the rule-set weights and thresholds.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/logger"
	"github.com/spigell/cv-scorer/internal/reference"
	"github.com/spigell/cv-scorer/internal/resume"
	"github.com/spigell/cv-scorer/internal/rules"
)

const maxScore = 100.0

// Engine scores documents against one immutable rule set. It is safe for
// concurrent use as long as its Estimator is.
type Engine struct {
	rules     *rules.RuleSet
	refs      *reference.Registry
	estimator ai.Estimator
	logger    *zap.Logger
}

// NewEngine validates rs and wires the lookup tables and the estimator used
// on lookup misses. A nil estimator disables inference.
func NewEngine(rs *rules.RuleSet, refs *reference.Registry, estimator ai.Estimator, log *zap.Logger) (*Engine, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if refs == nil {
		return nil, errors.New("reference registry is required")
	}
	if estimator == nil {
		estimator = ai.NewStatic()
	}

	return &Engine{
		rules:     rs,
		refs:      refs,
		estimator: estimator,
		logger:    logger.WithFields(log),
	}, nil
}

// Rules returns the rule set the engine scores with.
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// Score computes every category and aggregates the result.
func (e *Engine) Score(ctx context.Context, doc *resume.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}

	raw := map[rules.Category]float64{
		rules.Education:      e.Education(ctx, doc.Education),
		rules.Experience:     e.Experience(ctx, doc.ProfessionalExperience),
		rules.Projects:       e.Projects(ctx, doc.Projects),
		rules.Awards:         e.Awards(ctx, doc.Awards),
		rules.Certifications: e.Certifications(ctx, doc.Certifications),
	}

	result, err := Aggregate(e.rules, raw)
	if err != nil {
		return nil, fmt.Errorf("aggregating scores: %w", err)
	}

	e.logger.Debug("document scored", logger.ScoreFields(result.Breakdown(), result.TotalScore, string(result.Status))...)
	return result, nil
}

// bestOf scores every item and keeps the highest, bounded to [0, 100].
// An empty list is 0 and never calls score.
func bestOf[T any](items []T, score func(T) float64) float64 {
	best := 0.0
	for _, item := range items {
		if s := clamp(score(item)); s > best {
			best = s
		}
	}
	return best
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, maxScore)
}

// reputation resolves name in table and asks the estimator on a miss. Table
// hits are scaled by the table range, estimates by the subject range. Names
// that carry no information are worth nothing and are never looked up.
func (e *Engine) reputation(ctx context.Context, table *reference.Table, subject ai.Subject, name string) float64 {
	if !resume.Known(name) {
		return 0
	}

	if table != nil {
		if score, ok := table.Resolve(name); ok {
			return share(score, table.Max())
		}
		e.logger.Debug("reference miss", zap.String("table", table.Name()), zap.String("name", name))
	}

	return e.estimate(ctx, subject, name)
}

func (e *Engine) estimate(ctx context.Context, subject ai.Subject, name string) float64 {
	est := e.estimator.Estimate(ctx, subject, name)
	if est.Defaulted {
		e.logger.Debug("estimate defaulted",
			zap.String("subject", subject.Kind),
			zap.String("name", name),
			zap.Int("default", est.Score),
			zap.Error(est.Err),
		)
	}
	return share(subject.Clamp(est.Score), subject.Max)
}

// share is score as a fraction of its range.
func share(score, of int) float64 {
	if of <= 0 {
		return 0
	}
	return float64(score) / float64(of)
}
