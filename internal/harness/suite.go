package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ScenarioNotFoundError is returned when a scenario path doesn't exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// FindScenarios expands paths into scenario files. Directories are walked
// for .yaml, .yml and .cue files; the result is sorted within each
// directory.
func FindScenarios(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, &ScenarioNotFoundError{Path: p}
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			switch filepath.Ext(path) {
			case ".yaml", ".yml", ".cue":
				if !d.IsDir() {
					found = append(found, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}

// SuiteResult summarises a run over many scenario files.
type SuiteResult struct {
	TotalFiles     int            `json:"total_files"`
	TotalScenarios int            `json:"total_scenarios"`
	Passed         int            `json:"passed"`
	Failed         int            `json:"failed"`
	Results        []*Result      `json:"results,omitempty"`
	Failures       []SuiteFailure `json:"failures,omitempty"`
}

// SuiteFailure is a scenario that failed to load, run, or pass.
type SuiteFailure struct {
	Path     string `json:"path"`
	Scenario string `json:"scenario,omitempty"`
	Error    string `json:"error"`
}

func (r *SuiteResult) fail(path, scenario, format string, args ...any) {
	r.Failed++
	r.Failures = append(r.Failures, SuiteFailure{
		Path:     path,
		Scenario: scenario,
		Error:    fmt.Sprintf(format, args...),
	})
}

// RunSuite loads and runs every scenario in files. Load and run errors are
// recorded as failures; the suite itself only fails on context
// cancellation.
func (h *Harness) RunSuite(ctx context.Context, files []string) (*SuiteResult, error) {
	result := &SuiteResult{}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TotalFiles++

		scenarios, err := LoadScenarios(path)
		if err != nil {
			result.fail(path, "", "failed to load scenario: %v", err)
			continue
		}

		for _, scenario := range scenarios {
			result.TotalScenarios++

			res, err := h.Run(ctx, scenario)
			if err != nil {
				result.fail(path, scenario.Name, "scenario execution failed: %v", err)
				continue
			}
			result.Results = append(result.Results, res)
			if !res.Pass {
				result.fail(path, scenario.Name, "scenario assertions failed: %v", res.Errors)
				continue
			}
			result.Passed++
		}
	}
	return result, nil
}
