package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/siglist/internal/harness"
	"github.com/roach88/siglist/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to harness.UUIDv7Generator.
	IDGenerator harness.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario-path>...",
		Short: "Run scenarios against the list engine",
		Long: `Run YAML and CUE scenarios against the list engine.

Directories are searched for .yaml, .yml and .cue files. Every query is
built, observed and checked; afterwards every handle and item is released
and the engine must be empty.

With --db, the catalog, scenario documents and every query result are
written to a SQLite database (created if it doesn't exist), keyed by a
UUIDv7 run id.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, database errors, etc.)

Example:
  siglist run ./scenarios
  siglist run --db ./siglist.db ./scenarios/set_algebra.yaml --verbose`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for the result log")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger(cmd.ErrOrStderr())

	files, err := harness.FindScenarios(paths)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	ids := opts.IDGenerator
	if ids == nil {
		ids = harness.UUIDv7Generator{}
	}
	hopts := []harness.Option{harness.WithLogger(logger), harness.WithIDGenerator(ids)}

	if opts.Database != "" {
		logger.Info("opening database", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		hopts = append(hopts, harness.WithMirror(st))
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	suite, err := harness.New(hopts...).RunSuite(ctx, files)
	if err != nil {
		return WrapExitError(ExitCommandError, "run interrupted", err)
	}

	if formatter.JSON() {
		status := "ok"
		if suite.Failed > 0 {
			status = "error"
		}
		if err := formatter.Encode(CLIResponse{Status: status, Data: suite}); err != nil {
			return err
		}
	} else {
		outputSuiteText(formatter, suite)
	}

	if suite.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
	}
	return nil
}

func outputSuiteText(formatter *OutputFormatter, suite *harness.SuiteResult) {
	w := formatter.Writer

	rows := make([][]string, 0, len(suite.Results))
	for _, r := range suite.Results {
		status := "✓ pass"
		if !r.Pass {
			status = "✗ fail"
		}
		rows = append(rows, []string{r.Scenario, strconv.Itoa(len(r.Queries)), status, r.RunID})
	}
	if len(rows) > 0 {
		formatter.Table([]string{"SCENARIO", "QUERIES", "STATUS", "RUN ID"}, rows)
	}

	if len(suite.Failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range suite.Failures {
			name := f.Scenario
			if name == "" {
				name = f.Path
			}
			fmt.Fprintf(w, "✗ %s\n  %s\n", name, f.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.TotalScenarios)
}
