package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/batch"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultResultsDir = "results"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Score every résumé in a directory with a bounded worker pool",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", batch.DefaultWorkers, "maximum documents scored at once")
	batchCmd.Flags().Int("retries", batch.DefaultRetries, "attempts per document before giving up")
	batchCmd.Flags().Duration("backoff", batch.DefaultBackoff, "fixed wait between attempts")
	batchCmd.Flags().StringP("pattern", "p", batch.DefaultPattern, "glob matched against file names")
	batchCmd.Flags().StringP("output-dir", "o", "", "where result files and summary.json go (default <dir>/results)")
	batchCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before scoring")

	viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("batch.retries", batchCmd.Flags().Lookup("retries"))
	viper.BindPFlag("batch.backoff", batchCmd.Flags().Lookup("backoff"))
	viper.BindPFlag("batch.pattern", batchCmd.Flags().Lookup("pattern"))
	viper.BindPFlag("batch.output-dir", batchCmd.Flags().Lookup("output-dir"))
}

func runBatch(cmd *cobra.Command, dir string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config, engine := setup(ctx)

	cfg := config.Batch
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(dir, defaultResultsDir)
	}

	runner := batch.New(cfg, engine, logger)

	files, err := runner.Discover(dir)
	if err != nil {
		logger.Fatal("discovering documents", zap.Error(err))
	}

	if len(files) == 0 {
		logger.Info("exiting", zap.String("reason", "no documents found"), zap.String("dir", dir))
		return
	}

	logger.Info("documents found", zap.Int("count", len(files)), zap.String("dir", dir))

	if cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Score %d documents into %s?", len(files), cfg.OutputDir),
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	summary, err := runner.Run(ctx, files)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("batch interrupted", zap.Int("scored", summary.Succeeded), zap.Int("total", summary.Total))
			return
		}
		logger.Fatal("batch failed", zap.Error(err))
	}

	logger.Info("batch summary",
		zap.String("run_id", summary.RunID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Any("by_status", summary.ByStatus),
		zap.Int("bias_flagged", summary.BiasFlagged),
		zap.String("summary", filepath.Join(cfg.OutputDir, batch.SummaryFile)),
	)
}
