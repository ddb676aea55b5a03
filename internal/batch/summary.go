package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spigell/cv-scorer/internal/scoring"
)

const (
	SummaryFile  = "summary.json"
	resultSuffix = ".score.json"
)

// Outcome is what happened to one document.
type Outcome struct {
	File      string          `json:"file"`
	Result    *scoring.Result `json:"result,omitempty"`
	BiasFlags []string        `json:"bias_flags,omitempty"`
	Attempts  int             `json:"attempts"`
	Error     string          `json:"error,omitempty"`
}

// Succeeded reports whether the document was scored.
func (o Outcome) Succeeded() bool {
	return o.Result != nil
}

func (o *Outcome) fail(err error) {
	o.Result = nil
	o.Error = err.Error()
}

type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Summary aggregates a batch run.
type Summary struct {
	RunID        string                 `json:"run_id"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   time.Time              `json:"finished_at"`
	Total        int                    `json:"total"`
	Succeeded    int                    `json:"succeeded"`
	Failed       int                    `json:"failed"`
	ByStatus     map[scoring.Status]int `json:"by_status"`
	AverageScore float64                `json:"average_score"`
	BiasFlagged  int                    `json:"bias_flagged"`
	Failures     []Failure              `json:"failures"`
	Outcomes     []Outcome              `json:"-"`
}

func newSummary(runID string) *Summary {
	return &Summary{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		ByStatus: map[scoring.Status]int{
			scoring.StatusPass:     0,
			scoring.StatusConsider: 0,
			scoring.StatusFail:     0,
		},
		Failures: []Failure{},
	}
}

func (s *Summary) finish(outcomes []Outcome) {
	s.Outcomes = outcomes
	s.Total = len(outcomes)

	total := 0.0
	for _, o := range outcomes {
		if !o.Succeeded() {
			s.Failed++
			s.Failures = append(s.Failures, Failure{File: o.File, Error: o.Error})
			continue
		}

		s.Succeeded++
		s.ByStatus[o.Result.Status]++
		total += o.Result.TotalScore
		if len(o.BiasFlags) > 0 {
			s.BiasFlagged++
		}
	}

	if s.Succeeded > 0 {
		s.AverageScore = total / float64(s.Succeeded)
	}
	s.FinishedAt = time.Now().UTC()
}

// ResultFileName is the name the result for file is written under. The source
// extension is kept so a.json and a.yaml do not share a result file.
func ResultFileName(file string) string {
	return filepath.Base(file) + resultSuffix
}

// Write stores one result file per scored document and the summary in dir.
func Write(dir string, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			continue
		}
		if err := writeJSON(filepath.Join(dir, ResultFileName(o.File)), o); err != nil {
			return err
		}
	}

	return writeJSON(filepath.Join(dir, SummaryFile), s)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
