package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/campusgrade/scorecore/internal/engine"
	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/frameworks/naac"
	"github.com/campusgrade/scorecore/internal/models"
)

func newCriteriaCommand() *cobra.Command {
	var (
		format  string
		profile string
	)
	cmd := &cobra.Command{
		Use:   "criteria <framework>",
		Short: "List the criteria and weights of a framework",
		Long: `List the criteria, KPIs or parameters a framework scores, with their weights.

The framework may be given as a tag (A, B, C, D) or a name (aicte, nba, naac, nirf).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}
			fw, err := models.ParseFramework(args[0])
			if err != nil {
				return err
			}
			eng, err := engine.New(engine.WithNAACProfile(naac.WeightProfile(profile)))
			if err != nil {
				return err
			}
			lib, err := eng.Library(fw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			criteria := lib.Criteria()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Framework string                 `json:"framework"`
					Criteria  []frameworks.Criterion `json:"criteria"`
				}{fw.Name(), criteria})
			}

			idW, nameW := len("ID"), len("Name")
			for _, c := range criteria {
				idW = max(idW, runewidth.StringWidth(c.ID))
				nameW = max(nameW, runewidth.StringWidth(c.Name))
			}
			fmt.Fprintf(out, "%s criteria\n\n", fw.Name())
			fmt.Fprintf(out, "  %s  %s  %s\n", padRight("ID", idW), padRight("Name", nameW), "Weight")
			fmt.Fprintf(out, "  %s\n", strings.Repeat("─", idW+nameW+10))
			for _, c := range criteria {
				fmt.Fprintf(out, "  %s  %s  %.4g\n", padRight(c.ID, idW), padRight(c.Name, nameW), c.Weight)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVar(&profile, "profile", "", "NAAC weight profile: handbook or flat (default handbook)")

	return cmd
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
