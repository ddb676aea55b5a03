package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/ai"
	"github.com/spigell/cv-scorer/internal/ai/gemini"
	"github.com/spigell/cv-scorer/internal/logger"
	"github.com/spigell/cv-scorer/internal/reference"
	"github.com/spigell/cv-scorer/internal/rules"
	"github.com/spigell/cv-scorer/internal/scoring"
	"github.com/spigell/cv-scorer/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// setup builds the logger, reads the config and wires the scoring engine.
// Any failure here is a configuration problem and ends the process.
func setup(ctx context.Context) (*zap.Logger, *Config, *scoring.Engine) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	engine, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	return logger, config, engine
}

func newEngine(ctx context.Context, config *Config, zl *zap.Logger) (*scoring.Engine, error) {
	rs, err := rules.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	refs, err := reference.Load()
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}

	estimator, err := newEstimator(ctx, config.AI, zl)
	if err != nil {
		return nil, fmt.Errorf("building estimator: %w", err)
	}

	return scoring.NewEngine(rs, refs, estimator, zl)
}

func newEstimator(ctx context.Context, cfg *AIConfig, zl *zap.Logger) (ai.Estimator, error) {
	if cfg == nil || !cfg.Enabled {
		zl.Info("inference disabled, unknown names get the default score", zap.Int("default", ai.DefaultScore))
		return ai.NewStatic(), nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gcfg.APIKeyFile,
		Value: gcfg.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(zl, "gemini", gcfg.Model).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	aiLogger.Info("inference enabled", zap.String("resolved_model", generator.Model()))
	return gemini.NewEstimator(generator, gcfg.MaxLogLength, aiLogger), nil
}
