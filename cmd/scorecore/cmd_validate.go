package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusgrade/scorecore/internal/validation"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <batch.json|batch.yaml> [more ...]",
		Short: "Check batch files against the input schema",
		Long: `Check batch files against the embedded JSON schema without scoring them.

Each violation is printed with its instance path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bad := 0
			for _, path := range args {
				problems, err := validation.ValidateBatchFile(path)
				if err != nil {
					return err
				}
				if len(problems) == 0 {
					fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
					continue
				}
				bad++
				fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
				for _, p := range problems {
					fmt.Fprintf(out, "    %s\n", p) //nolint:errcheck
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d file(s) failed schema validation", bad, len(args))
			}
			return nil
		},
	}
}
