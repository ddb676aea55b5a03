// Package reference holds the static reputation tables used to score
// universities, companies and contests by exact name.
package reference

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spigell/cv-scorer/internal/normalize"
)

// UnknownScore is returned together with false when a name has no entry.
const UnknownScore = 10

const (
	UniversitiesFile = "universities.json"
	CompaniesFile    = "companies.json"
	ContestsFile     = "contests.json"
)

// Upper bounds of the scores stored in each table.
const (
	MaxUniversityScore = 20
	MaxCompanyScore    = 25
	MaxContestScore    = 30
)

// ErrCorruptTable reports a table file that is missing, unparsable or out of range.
var ErrCorruptTable = errors.New("corrupt reference table")

//go:embed data/*.json
var embedded embed.FS

// Table is a read-only mapping of organization names to reputation scores.
type Table struct {
	name       string
	max        int
	entries    map[string]int
	normalized map[string]int
	canonical  func(string) string
}

// Registry groups the tables consumed by the scorers.
type Registry struct {
	Universities *Table
	Companies    *Table
	Contests     *Table
}

// Load reads the tables compiled into the binary.
func Load() (*Registry, error) {
	data, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTable, err)
	}
	return LoadFS(data)
}

// LoadFS reads the three tables from fsys. Any failure is fatal to the caller.
func LoadFS(fsys fs.FS) (*Registry, error) {
	universities, err := readTable(fsys, UniversitiesFile, MaxUniversityScore, normalize.UniversityName)
	if err != nil {
		return nil, err
	}

	companies, err := readTable(fsys, CompaniesFile, MaxCompanyScore, normalize.Text)
	if err != nil {
		return nil, err
	}

	contests, err := readTable(fsys, ContestsFile, MaxContestScore, normalize.Text)
	if err != nil {
		return nil, err
	}

	return &Registry{
		Universities: universities,
		Companies:    companies,
		Contests:     contests,
	}, nil
}

// NewTable builds a table from entries. canonical maps a free-text name to
// the form compared against normalized keys; nil means normalize.Text.
func NewTable(name string, maxScore int, entries map[string]int, canonical func(string) string) (*Table, error) {
	if canonical == nil {
		canonical = normalize.Text
	}

	t := &Table{
		name:       name,
		max:        maxScore,
		entries:    make(map[string]int, len(entries)),
		normalized: make(map[string]int, len(entries)),
		canonical:  canonical,
	}

	for key, score := range entries {
		if score < 0 || score > maxScore {
			return nil, fmt.Errorf("%w: %s: score %d for %q outside 0-%d", ErrCorruptTable, name, score, key, maxScore)
		}
		t.entries[key] = score
		t.normalized[normalize.Text(key)] = score
	}

	return t, nil
}

// Lookup performs an exact, case-sensitive match. A miss returns
// UnknownScore and false.
func (t *Table) Lookup(name string) (int, bool) {
	if t == nil {
		return UnknownScore, false
	}
	if score, ok := t.entries[name]; ok {
		return score, true
	}
	return UnknownScore, false
}

// Resolve tries an exact match first, then the canonical form of name against
// both the stored keys and their normalized variants.
func (t *Table) Resolve(name string) (int, bool) {
	if score, ok := t.Lookup(name); ok {
		return score, true
	}
	if t == nil {
		return UnknownScore, false
	}

	canonical := t.canonical(name)
	if canonical == "" {
		return UnknownScore, false
	}
	if score, ok := t.entries[canonical]; ok {
		return score, true
	}
	if score, ok := t.normalized[normalize.Text(canonical)]; ok {
		return score, true
	}
	return UnknownScore, false
}

// Name returns the table identifier.
func (t *Table) Name() string { return t.name }

// Max returns the highest score the table may hold.
func (t *Table) Max() int { return t.max }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

func readTable(fsys fs.FS, file string, maxScore int, canonical func(string) string) (*Table, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorruptTable, file, err)
	}

	var entries map[string]int
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorruptTable, file, err)
	}

	return NewTable(file, maxScore, entries, canonical)
}
