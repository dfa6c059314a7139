package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/campus-collector/internal/analyzer"
	"github.com/templui/campus-collector/internal/config"
	"github.com/templui/campus-collector/internal/i18n"
	"github.com/templui/campus-collector/internal/logger"
)

func AnalyzeCmd() *cobra.Command {
	var lang string

	analyzeCmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Ask the vision model for metadata of a local image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], lang)
		},
	}
	analyzeCmd.Flags().StringVarP(&lang, "lang", "l", "zh", "reasoning language (zh or en)")

	return analyzeCmd
}

func runAnalyze(cmd *cobra.Command, path, lang string) error {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.SentryDSN)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	image := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(data), base64.StdEncoding.EncodeToString(data))

	prompts, err := analyzer.LoadPrompts()
	if err != nil {
		return err
	}
	a := analyzer.New(analyzer.NewGLM(analyzer.GLMConfig{
		APIKey:   cfg.GLMAPIKey,
		URL:      cfg.GLMAPIURL,
		Model:    cfg.GLMModel,
		AuthMode: cfg.GLMAuthMode,
	}), prompts)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AnalyzeTimeout)
	defer cancel()

	analysis, err := a.Analyze(ctx, image, i18n.Match(lang))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(analysis)
}
