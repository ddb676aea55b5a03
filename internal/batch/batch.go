// Package batch scores many résumé files with a bounded number of workers,
// retrying transient failures with a fixed backoff, and summarizes the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-scorer/internal/logger"
	"github.com/spigell/cv-scorer/internal/resume"
	"github.com/spigell/cv-scorer/internal/rules"
	"github.com/spigell/cv-scorer/internal/scoring"
	"github.com/spigell/cv-scorer/internal/utils"
)

const (
	DefaultWorkers = 5
	DefaultRetries = 3
	DefaultBackoff = 2 * time.Second
	DefaultPattern = "*"
)

var wait = utils.WaitFor

// Scorer is the part of the scoring engine the runner needs.
type Scorer interface {
	Score(ctx context.Context, doc *resume.Document) (*scoring.Result, error)
}

type Config struct {
	Workers int           `mapstructure:"workers"`
	Retries int           `mapstructure:"retries"`
	Backoff time.Duration `mapstructure:"backoff"`
	// Pattern is a filepath.Match glob applied to file names by Discover.
	Pattern string `mapstructure:"pattern"`
	// OutputDir receives per-document results and summary.json. Empty
	// disables writing.
	OutputDir string `mapstructure:"output-dir"`
}

type Runner struct {
	cfg    Config
	scorer Scorer
	logger *zap.Logger
	load   func(path string) (*resume.Document, error)
}

// New returns a runner. Non-positive workers and retries take the defaults; a
// negative backoff means none.
func New(cfg Config, scorer Scorer, log *zap.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = DefaultPattern
	}

	return &Runner{
		cfg:    cfg,
		scorer: scorer,
		logger: logger.WithFields(log),
		load:   resume.Load,
	}
}

// Discover lists the supported documents in dir whose names match the
// configured pattern, sorted by name.
func (r *Runner) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !resume.Supported(entry.Name()) {
			continue
		}
		ok, err := filepath.Match(r.cfg.Pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("matching pattern %q: %w", r.cfg.Pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// Run scores files concurrently. A failing document never stops the others;
// only cancellation of ctx is returned as an error, alongside the partial summary.
func (r *Runner) Run(ctx context.Context, files []string) (*Summary, error) {
	summary := newSummary(uuid.NewString())
	log := r.logger.With(zap.String("run_id", summary.RunID))

	log.Info("starting batch",
		zap.Int("documents", len(files)),
		zap.Int("workers", r.cfg.Workers),
		zap.Int("retries", r.cfg.Retries),
		zap.Duration("backoff", r.cfg.Backoff),
	)

	outcomes := make([]Outcome, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, file := range files {
		g.Go(func() error {
			outcomes[i] = r.process(gCtx, file, log)
			return nil
		})
	}
	// Workers report failures through their outcome.
	_ = g.Wait()

	summary.finish(outcomes)

	if r.cfg.OutputDir != "" {
		if err := Write(r.cfg.OutputDir, summary); err != nil {
			return summary, err
		}
		log.Info("results written", zap.String("dir", r.cfg.OutputDir))
	}

	log.Info("batch finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Float64("average_score", summary.AverageScore),
	)

	return summary, ctx.Err()
}

func (r *Runner) process(ctx context.Context, file string, log *zap.Logger) Outcome {
	outcome := Outcome{File: file}
	log = log.With(zap.String("file", filepath.Base(file)))

	for {
		outcome.Attempts++

		doc, result, err := r.scoreFile(ctx, file)
		if err == nil {
			outcome.Result = result
			outcome.BiasFlags = resume.BiasTerms(doc)
			log.Info("document scored", logger.ScoreFields(result.Breakdown(), result.TotalScore, string(result.Status))...)
			if len(outcome.BiasFlags) > 0 {
				log.Warn("document mentions demographic terms", zap.Strings("bias_flags", outcome.BiasFlags))
			}
			return outcome
		}

		if permanent(err) || outcome.Attempts >= r.cfg.Retries {
			outcome.fail(err)
			log.Error("document failed", zap.Int("attempts", outcome.Attempts), zap.Error(err))
			return outcome
		}

		log.Warn("document failed, retrying",
			zap.Int("attempt", outcome.Attempts),
			zap.Duration("backoff", r.cfg.Backoff),
			zap.Error(err),
		)

		if err := wait(ctx, r.cfg.Backoff); err != nil {
			outcome.fail(err)
			return outcome
		}
	}
}

func (r *Runner) scoreFile(ctx context.Context, file string) (*resume.Document, *scoring.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := r.load(file)
	if err != nil {
		return nil, nil, err
	}

	result, err := r.scorer.Score(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("scoring: %w", err)
	}
	return doc, result, nil
}

// permanent errors do not get better on retry.
func permanent(err error) bool {
	return errors.Is(err, rules.ErrInvalidRules) ||
		errors.Is(err, resume.ErrUnsupportedFormat) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
