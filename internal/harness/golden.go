package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/testutil"
)

// TraceSnapshot is the part of a Result that golden files pin down.
// Run ids, hashes and SQL text are left out so goldens survive
// unrelated changes.
type TraceSnapshot struct {
	Scenario string
	Queries  []QueryResult
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles IR types and plain Go containers.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	queries := make([]any, len(s.Queries))
	for i, q := range s.Queries {
		queries[i] = map[string]any{
			"seq":         q.Seq,
			"name":        q.Name,
			"op":          q.Op,
			"description": q.Description,
			"items":       q.Items,
			"length":      q.Length,
		}
	}
	return map[string]any{
		"scenario": s.Scenario,
		"queries":  queries,
	}
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *ir.Scenario) (*Result, error) {
	t.Helper()

	h := New(WithIDGenerator(testutil.NewFixedIDGenerator("")))
	result, err := h.Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := TraceBytes(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// TraceBytes renders the golden trace of a result as canonical JSON.
func TraceBytes(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{Scenario: name, Queries: result.Queries}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}
