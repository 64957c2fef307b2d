package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/siglist/internal/compiler"
	"github.com/roach88/siglist/internal/harness"
	"github.com/roach88/siglist/internal/ir"
)

// FileValidation holds the validation outcome of one scenario.
type FileValidation struct {
	Path     string                     `json:"path"`
	Scenario string                     `json:"scenario,omitempty"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Scenarios []FileValidation `json:"scenarios"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario-path>...",
		Short: "Validate scenarios without running them",
		Long: `Validate YAML and CUE scenarios without running them.

Reports every problem found, each with a stable code (E1xx), instead of
stopping at the first one. Faster than run for development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := harness.FindScenarios(paths)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	result := ValidationResult{Valid: true, Scenarios: []FileValidation{}}
	preds := harness.DefaultRegistry()
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		scenarios, err := decodeScenarios(path)
		if err != nil {
			result.Valid = false
			result.Scenarios = append(result.Scenarios, FileValidation{
				Path:   path,
				Errors: []compiler.ValidationError{loadValidationError(err)},
			})
			continue
		}
		for _, s := range scenarios {
			errs := harness.ScenarioErrors(s, preds)
			if len(errs) > 0 {
				result.Valid = false
			}
			result.Scenarios = append(result.Scenarios, FileValidation{
				Path:     path,
				Scenario: s.Name,
				Errors:   errs,
			})
		}
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputValidationText(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// decodeScenarios loads the scenarios of a file without validating them,
// so every problem can be reported.
func decodeScenarios(path string) ([]*ir.Scenario, error) {
	if filepath.Ext(path) == ".cue" {
		return compiler.CompileFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := harness.DecodeScenario(data)
	if err != nil {
		return nil, err
	}
	return []*ir.Scenario{s}, nil
}

// loadValidationError turns a load failure into a validation entry. CUE
// compile errors keep their field; anything else is reported as a load
// error.
func loadValidationError(err error) compiler.ValidationError {
	var cErr *compiler.CompileError
	if errors.As(err, &cErr) {
		field := cErr.Field
		if cErr.Pos.IsValid() {
			field = fmt.Sprintf("%s (line %d)", field, cErr.Pos.Line())
		}
		return compiler.ValidationError{Field: field, Message: cErr.Message, Code: ErrCodeLoadFailed}
	}
	return compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeLoadFailed}
}

func outputValidationText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	for _, fv := range result.Scenarios {
		name := fv.Scenario
		if name == "" {
			name = fv.Path
		}
		if len(fv.Errors) == 0 {
			fmt.Fprintf(w, "✓ %s\n", name)
			continue
		}
		fmt.Fprintf(w, "✗ %s (%s)\n", name, fv.Path)
		for _, e := range fv.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
	if result.Valid {
		fmt.Fprintf(w, "\nAll %d scenario(s) valid\n", len(result.Scenarios))
	}
}
