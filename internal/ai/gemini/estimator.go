package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/utils"
)

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Estimator asks Gemini for a reputation score and falls back to the subject
// default on any failure.
type Estimator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Estimator = (*Estimator)(nil)

func NewEstimator(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Estimator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Estimator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Estimator) Estimate(ctx context.Context, subject ai.Subject, name string) ai.Estimate {
	name = strings.TrimSpace(name)
	if name == "" {
		return ai.Fallback(subject, ai.ErrEmptyName)
	}
	if e.generator == nil {
		return ai.Fallback(subject, ai.ErrDisabled)
	}

	question := subject.Question(name)
	fields := []zap.Field{
		zap.String("subject", subject.Kind),
		zap.String("name", name),
	}

	e.logger.Debug("gemini estimate request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(question)),
		zap.String("prompt_preview", utils.TruncateForLog(question, e.maxLogLen)),
	)...)

	raw, err := e.generator.GenerateContent(ctx, subject.SystemPrompt(), question)
	if err != nil {
		e.logger.Warn("gemini estimate failed, using default score",
			append(fields, zap.Int("default", subject.Default), zap.Error(err))...)
		return ai.Fallback(subject, err)
	}

	e.logger.Debug("gemini estimate response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)...)

	score, err := ai.ParseScore(raw, subject)
	if err != nil {
		e.logger.Warn("gemini estimate unparsable, using default score",
			append(fields, zap.Int("default", subject.Default), zap.Error(err))...)
		return ai.Fallback(subject, err)
	}

	return ai.Estimate{Score: score}
}
