package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/siglist/internal/compiler"
	"github.com/roach88/siglist/internal/ir"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*ir.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// LoadScenarios reads every scenario in a file: one per YAML file, any
// number per CUE file.
func LoadScenarios(path string) ([]*ir.Scenario, error) {
	if filepath.Ext(path) != ".cue" {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		return []*ir.Scenario{s}, nil
	}

	scenarios, err := compiler.CompileFile(path)
	if err != nil {
		return nil, err
	}
	preds := DefaultRegistry()
	for _, s := range scenarios {
		if err := ValidateScenario(s, preds); err != nil {
			return nil, fmt.Errorf("invalid scenario %s: %w", s.Name, err)
		}
	}
	return scenarios, nil
}

// ParseScenario parses and validates a scenario YAML document.
func ParseScenario(data []byte) (*ir.Scenario, error) {
	scenario, err := DecodeScenario(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateScenario(scenario, DefaultRegistry()); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// DecodeScenario parses a scenario YAML document without validating it.
func DecodeScenario(data []byte) (*ir.Scenario, error) {
	var scenario ir.Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// ValidateScenario checks a scenario before it runs and returns the first
// problem found by ScenarioErrors.
func ValidateScenario(s *ir.Scenario, preds *Registry) error {
	if errs := ScenarioErrors(s, preds); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ScenarioErrors returns every problem with a scenario: the structural
// rules of compiler.Validate plus the predicate names, which must be known
// to preds.
func ScenarioErrors(s *ir.Scenario, preds *Registry) []compiler.ValidationError {
	errs := compiler.Validate(s)
	for i, q := range s.Queries {
		if (q.Op != ir.OpQuery && q.Op != ir.OpFilter) || q.Predicate == "" {
			continue
		}
		if _, ok := preds.Lookup(q.Predicate); !ok {
			errs = append(errs, compiler.ValidationError{
				Field:   fmt.Sprintf("queries[%d].predicate", i),
				Message: fmt.Sprintf("unknown predicate %q", q.Predicate),
				Code:    compiler.ErrUnknownPredicate,
			})
		}
	}
	return errs
}

// ScenarioObject returns the scenario as a value tree for hashing and
// storage.
func ScenarioObject(s *ir.Scenario) (ir.Object, error) {
	devices := make(ir.Array, len(s.Devices))
	for i, d := range s.Devices {
		sigs := make(ir.Array, len(d.Signals))
		for j, sig := range d.Signals {
			obj := ir.Object{
				"name":      ir.String(sig.Name),
				"direction": ir.String(sig.Direction),
				"length":    ir.Int64(sig.Length),
				"type":      ir.String(sig.Type),
			}
			if sig.Unit != "" {
				obj["unit"] = ir.String(sig.Unit)
			}
			sigs[j] = obj
		}
		devices[i] = ir.Object{"name": ir.String(d.Name), "signals": sigs}
	}

	queries := make(ir.Array, len(s.Queries))
	for i, q := range s.Queries {
		obj := ir.Object{
			"name": ir.String(q.Name),
			"op":   ir.String(q.Op),
		}
		for key, v := range map[string]string{
			"source":    q.Source,
			"predicate": q.Predicate,
			"left":      q.Left,
			"right":     q.Right,
		} {
			if v != "" {
				obj[key] = ir.String(v)
			}
		}
		if len(q.Args) > 0 {
			args, err := ir.FromGo(q.Args)
			if err != nil {
				return nil, fmt.Errorf("queries[%d].args: %w", i, err)
			}
			obj["args"] = args
		}
		if q.Expect != nil {
			expect, _ := ir.FromGo(q.Expect)
			obj["expect"] = expect
		}
		if q.Length != nil {
			obj["length"] = ir.Int64(*q.Length)
		}
		if len(q.Index) > 0 {
			checks := make(ir.Array, len(q.Index))
			for j, ix := range q.Index {
				checks[j] = ir.Object{"at": ir.Int64(ix.At), "want": ir.String(ix.Want)}
			}
			obj["index"] = checks
		}
		queries[i] = obj
	}

	return ir.Object{
		"name":        ir.String(s.Name),
		"description": ir.String(s.Description),
		"devices":     devices,
		"queries":     queries,
		"verify_sql":  ir.Bool(s.VerifySQL),
	}, nil
}
