package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/siglist/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Query    string // optional - filter to one query definition
}

// TraceEntry is one logged query result.
type TraceEntry struct {
	Seq         int64    `json:"seq"`
	Query       string   `json:"query"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Items       []string `json:"items"`
}

// TraceResult is the logged outcome of one run.
type TraceResult struct {
	RunID        string       `json:"run_id"`
	ScenarioHash string       `json:"scenario_hash"`
	Entries      []TraceEntry `json:"entries"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <run-id>",
		Short: "Show the logged results of a run",
		Long: `Show the query results a run wrote to the result log.

The run id is printed by "siglist run --db". Results are listed in the
order the queries were observed.

Example:
  siglist trace --db ./siglist.db 0192e4a0-...
  siglist trace --db ./siglist.db 0192e4a0-... --query either --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "show only this query")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err.Error())
	}
	defer st.Close()

	records, err := st.ReadResults(cmd.Context(), runID)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStore, err.Error())
	}
	if len(records) == 0 {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("no results for run %s", runID))
	}

	result := TraceResult{RunID: runID, ScenarioHash: records[0].ScenarioHash, Entries: []TraceEntry{}}
	for _, r := range records {
		if opts.Query != "" && r.QueryName != opts.Query {
			continue
		}
		result.Entries = append(result.Entries, TraceEntry{
			Seq:         r.Seq,
			Query:       r.QueryName,
			Fingerprint: r.Fingerprint,
			Items:       r.Items,
		})
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, RunID: runID})
	}

	fmt.Fprintf(formatter.Writer, "Run %s (scenario %s)\n\n", runID, shortHash(result.ScenarioHash))
	rows := make([][]string, len(result.Entries))
	for i, e := range result.Entries {
		rows[i] = []string{
			strconv.FormatInt(e.Seq, 10),
			e.Query,
			shortHash(e.Fingerprint),
			strings.Join(e.Items, " "),
		}
	}
	formatter.Table([]string{"SEQ", "QUERY", "FINGERPRINT", "ITEMS"}, rows)
	return nil
}

// openExistingStore opens a database that must already exist; store.Open
// would silently create an empty one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return store.Open(path)
}
