package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/siglist/internal/harness"
	"github.com/roach88/siglist/internal/testutil"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Query string // only this query definition
	SQL   bool   // compile every description to SQL
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe <scenario-file>",
		Short: "Show the query tree of every handle in a scenario",
		Long: `Run one scenario file and show, for each query definition, the query
tree its handle carries, the items it yields and its fingerprint.

With --sql every tree is also compiled to the SQL the mirror evaluates and
cross-checked against it.

Example:
  siglist describe ./scenarios/set_algebra.yaml
  siglist describe ./scenarios/set_algebra.yaml --query either --sql`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "describe only this query")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "show and cross-check the compiled SQL")

	return cmd
}

func runDescribe(opts *DescribeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scenarios, err := harness.LoadScenarios(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLoadFailed, err.Error())
	}

	h := harness.New(
		harness.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		harness.WithIDGenerator(testutil.NewFixedIDGenerator("")),
	)

	var described []harness.QueryResult
	for _, s := range scenarios {
		if opts.SQL {
			s.VerifySQL = true
		}
		result, err := h.Run(cmd.Context(), s)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		for _, e := range result.Errors {
			formatter.VerboseLog("%s: %s", s.Name, e)
		}
		for _, q := range result.Queries {
			if opts.Query == "" || q.Name == opts.Query {
				described = append(described, q)
			}
		}
	}

	if opts.Query != "" && len(described) == 0 {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("query %q not found in %s", opts.Query, path))
	}

	if formatter.JSON() {
		return formatter.Success(described)
	}

	rows := make([][]string, len(described))
	for i, q := range described {
		rows[i] = []string{q.Name, q.Op, strconv.Itoa(q.Length), q.Description}
	}
	formatter.Table([]string{"QUERY", "OP", "LEN", "DESCRIPTION"}, rows)

	if opts.SQL || opts.Verbose {
		for _, q := range described {
			fmt.Fprintf(formatter.Writer, "\n%s\n", q.Name)
			if q.Fingerprint != "" {
				fmt.Fprintf(formatter.Writer, "  fingerprint: %s\n", q.Fingerprint)
			}
			if q.SQL != "" {
				fmt.Fprintf(formatter.Writer, "  sql: %s\n", q.SQL)
			}
		}
	}
	return nil
}
