package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/campusgrade/scorecore/internal/engine"
	"github.com/campusgrade/scorecore/internal/frameworks/naac"
	"github.com/campusgrade/scorecore/internal/frameworks/nba"
	"github.com/campusgrade/scorecore/internal/projectconfig"
)

// loadProjectConfig reads the explicit --config path, or searches upward
// from the working directory when none is given.
func loadProjectConfig(path string) (*projectconfig.ProjectConfig, error) {
	if path != "" {
		return projectconfig.LoadFile(path)
	}
	return projectconfig.Load(".")
}

// newLogger writes structured logs to w at the configured level. --debug
// overrides the config file.
func newLogger(cmd *cobra.Command, w io.Writer, cfg *projectconfig.ProjectConfig) *slog.Logger {
	level := cfg.Level()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newEngine(cfg *projectconfig.ProjectConfig, logger *slog.Logger) (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithNAACProfile(naac.WeightProfile(cfg.NAAC.WeightProfile)),
		engine.WithNBAOptions(
			nba.WithAssessmentWeights(cfg.NBA.DirectWeight, cfg.NBA.IndirectWeight),
			nba.WithThresholds(nba.Thresholds{
				Attained: cfg.NBA.AttainedThreshold,
				Partial:  cfg.NBA.PartialThreshold,
			}),
		),
	}
	if expected := cfg.ExpectedBlocks(); len(expected) > 0 {
		opts = append(opts, engine.WithExpectedBlocks(expected))
	}
	return engine.New(opts...)
}
