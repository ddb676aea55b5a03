// Package ai defines how the scorers ask an external reasoning service for a
// reputation estimate when a name is missing from the reference tables.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultScore is substituted whenever an estimate cannot be obtained.
const DefaultScore = 10

var (
	// ErrNoScore means the collaborator reply held no integer.
	ErrNoScore = errors.New("response does not contain a score")
	// ErrEmptyName means there was nothing to ask about.
	ErrEmptyName = errors.New("subject name is empty")
	// ErrDisabled means no collaborator is configured.
	ErrDisabled = errors.New("inference is disabled")
)

var integerRe = regexp.MustCompile(`-?\d+`)

// Subject describes one kind of name the collaborator can estimate.
type Subject struct {
	Kind      string
	Evaluator string
	Measure   string
	Max       int
	Default   int
}

var (
	University    = Subject{Kind: "university", Evaluator: "university reputation", Measure: "reputation", Max: 20, Default: DefaultScore}
	Company       = Subject{Kind: "company", Evaluator: "company size", Measure: "size", Max: 25, Default: DefaultScore}
	Contest       = Subject{Kind: "contest", Evaluator: "contest prestige", Measure: "prestige", Max: 30, Default: DefaultScore}
	Certification = Subject{Kind: "certification", Evaluator: "certification relevance", Measure: "relevance", Max: 50, Default: DefaultScore}
)

// Clamp bounds v to [0, Max].
func (s Subject) Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// SystemPrompt is the instruction sent alongside every question.
func (s Subject) SystemPrompt() string {
	return fmt.Sprintf("You are a %s evaluator. Provide a score between 0 and %d. Reply with the number only.", s.Evaluator, s.Max)
}

// Question is the single bounded request for name.
func (s Subject) Question(name string) string {
	return fmt.Sprintf("Based on the following %s name, provide a %s score between 0 and %d, where %d is the highest.\n%s: %s",
		s.Kind, s.Measure, s.Max, s.Max, capitalize(s.Kind), name)
}

// Estimate is the outcome of one inference request. When Defaulted is set,
// Score holds the subject default and Err explains why.
type Estimate struct {
	Score     int
	Defaulted bool
	Err       error
}

// Fallback builds the defaulted outcome for s.
func Fallback(s Subject, err error) Estimate {
	return Estimate{Score: s.Clamp(s.Default), Defaulted: true, Err: err}
}

// Estimator returns a bounded score for a name. Implementations never fail;
// problems are reported through a defaulted Estimate.
type Estimator interface {
	Estimate(ctx context.Context, subject Subject, name string) Estimate
}

// ParseScore takes the first integer in raw and clamps it to the subject range.
func ParseScore(raw string, s Subject) (int, error) {
	match := integerRe.FindString(raw)
	if match == "" {
		return 0, ErrNoScore
	}

	v, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoScore, err)
	}

	return s.Clamp(v), nil
}

type static struct{}

// NewStatic returns an Estimator that always answers with the subject default.
func NewStatic() Estimator {
	return static{}
}

func (static) Estimate(_ context.Context, s Subject, _ string) Estimate {
	return Fallback(s, ErrDisabled)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
