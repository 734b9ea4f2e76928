package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/campusgrade/scorecore/internal/input"
	"github.com/campusgrade/scorecore/internal/models"
	"github.com/campusgrade/scorecore/internal/reporting"
)

const stdinArg = "-"

type evaluateOptions struct {
	format      string
	configPath  string
	outputPath  string
	concurrency int
	verbose     bool
	summary     bool
}

func newEvaluateCommand() *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate [batch.json|batch.yaml ...]",
		Short: "Score one or more extraction batches",
		Long: `Score extraction batches against their framework and print a scorecard.

Each file holds one batch request (JSON or YAML). Use "-" to read a batch
from stdin; with no arguments stdin is read when it is not a terminal.

Exit codes: 0 when every batch is valid, 1 when any batch is marked invalid,
2 when a file cannot be loaded or scored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or junit")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a .scorecore.yaml (default: search upward from cwd)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "Maximum batches scored in parallel")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show formulas, reasons and notes per criterion")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Append a plain-language interpretation (text format)")

	return cmd
}

// evaluation is the outcome for one input, in argument order.
type evaluation struct {
	path   string
	result *models.Evaluation
	err    error
}

func runEvaluate(cmd *cobra.Command, args []string, opts *evaluateOptions) error {
	switch opts.format {
	case "text", "json", "junit":
	default:
		return fmt.Errorf("unsupported format %q: must be text, json or junit", opts.format)
	}
	if opts.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
	}

	if len(args) == 0 {
		if stdinIsTerminal(cmd) {
			return fmt.Errorf("no batch files given; pass paths or pipe a batch on stdin")
		}
		args = []string{stdinArg}
	}

	cfg, err := loadProjectConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cmd.ErrOrStderr(), cfg)
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logger.Debug("starting evaluation", "inputs", len(args), "config", cfg.Path)

	stdin, err := readStdinIfNeeded(cmd, args)
	if err != nil {
		return err
	}

	// Loading and registration run in argument order so the first of two
	// files sharing a batch id is the one scored.
	provider := input.NewProvider()
	outcomes := make([]evaluation, len(args))
	requests := make([]*models.Request, len(args))
	for i, path := range args {
		outcomes[i].path = path
		var req *models.Request
		if path == stdinArg {
			req, err = input.Parse("<stdin>", stdin)
		} else {
			req, err = input.LoadFile(path)
		}
		if err == nil {
			err = provider.Add(req)
		}
		if err != nil {
			outcomes[i].err = err
			continue
		}
		requests[i] = req
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.concurrency)
	for i, req := range requests {
		if req == nil {
			continue
		}
		g.Go(func() error {
			outcomes[i].result, outcomes[i].err = eng.Evaluate(ctx, req, provider)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var (
		evals  []*models.Evaluation
		failed []reporting.FileError
	)
	invalid := 0
	for _, o := range outcomes {
		if o.err != nil {
			logger.Debug("batch not scored", "path", o.path, "error", o.err)
			failed = append(failed, reporting.FileError{Path: o.path, Message: o.err.Error()})
			continue
		}
		if !o.result.Verdict.IsValid {
			invalid++
		}
		evals = append(evals, o.result)
	}

	out := cmd.OutOrStdout()
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	if err := writeReport(out, cmd.ErrOrStderr(), runID, evals, failed, opts); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d batch file(s) could not be evaluated", len(failed), len(args))
	}
	if invalid > 0 {
		return &InvalidBatchError{Invalid: invalid, Total: len(evals)}
	}
	return nil
}

func writeReport(out, errOut io.Writer, runID string, evals []*models.Evaluation, failed []reporting.FileError, opts *evaluateOptions) error {
	switch opts.format {
	case "json":
		return reporting.WriteJSON(out, reporting.Envelope{
			RunID:       runID,
			GeneratedAt: time.Now().UTC(),
			Evaluations: evals,
			Errors:      failed,
		})
	case "junit":
		return reporting.WriteJUnitXML(out, reporting.ConvertToJUnit(runID, time.Now(), evals))
	}

	for i, ev := range evals {
		if i > 0 {
			fmt.Fprintln(out) //nolint:errcheck
		}
		if err := reporting.WriteText(out, ev, reporting.TextOptions{Verbose: opts.verbose}); err != nil {
			return err
		}
		if opts.summary {
			fmt.Fprintf(out, "\n%s", reporting.FormatSummaryReport(ev)) //nolint:errcheck
		}
	}
	for _, f := range failed {
		fmt.Fprintf(errOut, "✗ %s: %s\n", f.Path, f.Message) //nolint:errcheck
	}
	return nil
}

// stdinIsTerminal checks the command's input stream, not os.Stdin directly.
func stdinIsTerminal(cmd *cobra.Command) bool {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func readStdinIfNeeded(cmd *cobra.Command, args []string) ([]byte, error) {
	n := 0
	for _, a := range args {
		if a == stdinArg {
			n++
		}
	}
	switch n {
	case 0:
		return nil, nil
	case 1:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("stdin (%q) can be given only once", stdinArg)
	}
}
