package cli

import (
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/roach88/siglist/internal/harness"
	"github.com/roach88/siglist/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledScenario is a scenario document in canonical form.
type CompiledScenario struct {
	Path     string             `json:"path"`
	Name     string             `json:"name"`
	Hash     string             `json:"hash"`
	Devices  int                `json:"devices"`
	Signals  int                `json:"signals"`
	Queries  int                `json:"queries"`
	Document jsoniter.RawMessage `json:"document"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <scenario-path>...",
		Short: "Compile scenarios to canonical JSON",
		Long: `Compile YAML and CUE scenarios to canonical JSON documents.

Each document is hashed the same way the result log keys scenarios, so the
hash printed here matches the scenario_hash of stored runs.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := harness.FindScenarios(paths)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	var compiled []CompiledScenario
	for _, path := range files {
		formatter.VerboseLog("Compiling %s", path)
		scenarios, err := harness.LoadScenarios(path)
		if err != nil {
			return outputCommandError(formatter, ErrCodeLoadFailed, fmt.Sprintf("%s: %v", path, err))
		}
		for _, s := range scenarios {
			c, err := compileScenario(path, s)
			if err != nil {
				return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("%s: %v", path, err))
			}
			compiled = append(compiled, c)
		}
	}

	if opts.Output != "" {
		if err := writeCompiled(compiled, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.JSON() {
		return formatter.Success(compiled)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d scenario(s)\n\n", len(compiled))
	rows := make([][]string, len(compiled))
	for i, c := range compiled {
		rows[i] = []string{
			c.Name,
			strconv.Itoa(c.Devices),
			strconv.Itoa(c.Signals),
			strconv.Itoa(c.Queries),
			shortHash(c.Hash),
		}
	}
	formatter.Table([]string{"SCENARIO", "DEVICES", "SIGNALS", "QUERIES", "HASH"}, rows)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical documents to %s\n", opts.Output)
	}
	return nil
}

func compileScenario(path string, s *ir.Scenario) (CompiledScenario, error) {
	doc, err := harness.ScenarioObject(s)
	if err != nil {
		return CompiledScenario{}, err
	}
	hash, err := ir.ScenarioHash(doc)
	if err != nil {
		return CompiledScenario{}, err
	}
	data, err := ir.MarshalCanonical(doc)
	if err != nil {
		return CompiledScenario{}, err
	}

	signals := 0
	for _, d := range s.Devices {
		signals += len(d.Signals)
	}
	return CompiledScenario{
		Path:     path,
		Name:     s.Name,
		Hash:     hash,
		Devices:  len(s.Devices),
		Signals:  signals,
		Queries:  len(s.Queries),
		Document: data,
	}, nil
}

// writeCompiled writes the compiled documents as an indented JSON array.
func writeCompiled(compiled []CompiledScenario, filename string) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(compiled, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scenarios: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// shortHash trims a hex hash for display.
func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}
