package harness

import "github.com/roach88/siglist/internal/list"

// QueryResult is what one query definition produced.
type QueryResult struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Op   string `json:"op"`

	// Description is the handle's query tree in queryir.Format form,
	// "none" for an empty result.
	Description string `json:"description"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// Items are "device/signal" names in iteration order.
	Items  []string `json:"items"`
	Length int      `json:"length"`

	// SQL is the compiled mirror query when the scenario verifies SQL.
	SQL string `json:"sql,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation, SQL cross-check and the final
	// leak check succeeded.
	Pass bool `json:"pass"`

	Scenario     string        `json:"scenario"`
	ScenarioHash string        `json:"scenario_hash"`
	RunID        string        `json:"run_id"`
	Queries      []QueryResult `json:"queries"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Leaked is the arena census after all handles and items were
	// released. Zero when nothing leaked.
	Leaked list.Stats `json:"leaked"`
}

// NewResult creates a new passing result.
func NewResult(scenario, runID string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		RunID:    runID,
		Queries:  []QueryResult{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Query returns the result of the query definition named name.
func (r *Result) Query(name string) (QueryResult, bool) {
	for _, q := range r.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return QueryResult{}, false
}
