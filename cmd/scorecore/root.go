package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scorecore",
		Short: "scorecore - deterministic accreditation scoring",
		Long: `scorecore scores extracted institutional facts against the AICTE, NBA,
NAAC and NIRF accreditation frameworks.

Every score is traceable to evidence. Facts without provenance are never
used, and a batch whose overall score cannot be computed is marked invalid.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newEvaluateCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newCriteriaCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
