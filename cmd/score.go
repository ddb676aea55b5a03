package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-scorer/internal/resume"
	"github.com/spigell/cv-scorer/internal/scoring"
)

type scoreOutput struct {
	File      string          `json:"file"`
	Result    *scoring.Result `json:"result"`
	BiasFlags []string        `json:"bias_flags"`
}

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score one structured résumé (JSON or YAML) and print the result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
}

func score(cmd *cobra.Command, file string) {
	ctx := context.Background()
	logger, _, engine := setup(ctx)

	logger.Info("starting the cv-scorer", zap.String("version", version), zap.String("file", file))

	doc, err := resume.Load(file)
	if err != nil {
		logger.Fatal("loading document", zap.Error(err))
	}

	result, err := engine.Score(ctx, doc)
	if err != nil {
		logger.Fatal("scoring document", zap.Error(err))
	}

	bias := resume.BiasTerms(doc)
	if len(bias) > 0 {
		logger.Warn("document mentions demographic terms; they do not affect the score", zap.Strings("bias_flags", bias))
	}

	logger.Info("document scored",
		zap.Float64("total_score", result.TotalScore),
		zap.String("status", string(result.Status)),
	)

	// do not bother error since the result is plain data
	pretty, _ := json.MarshalIndent(scoreOutput{File: file, Result: result, BiasFlags: bias}, "", "  ")

	output := cmd.Flag("output").Value.String()
	if output == "" {
		fmt.Println(string(pretty))
		return
	}

	if err := os.WriteFile(output, append(pretty, '\n'), 0o644); err != nil {
		logger.Fatal("writing result", zap.String("filename", output), zap.Error(err))
	}
	logger.Info("result written", zap.String("filename", output))
}
