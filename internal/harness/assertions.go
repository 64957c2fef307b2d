package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Check kinds reported by AssertionError.
const (
	CheckItems  = "items"
	CheckLength = "length"
	CheckIndex  = "index"
	CheckSQL    = "sql"
)

// AssertionError is returned when a query's observation does not match
// what was expected of it.
type AssertionError struct {
	Query    string // Query definition name
	Check    string // One of the Check constants
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome

	// Diff is a unified diff of expected and actual item lists, if any.
	Diff string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "query %s: %s check failed\n", e.Query, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "\n%s", e.Diff)
	}
	return buf.String()
}

// compareItems reports a mismatch between two ordered item lists. For
// CheckSQL, want holds the mirror's rows and got the engine's items.
func compareItems(query, check string, want, got []string) error {
	if slices.Equal(want, got) {
		return nil
	}
	from, to := "expected", "actual"
	if check == CheckSQL {
		from, to = "sql", "engine"
	}
	return &AssertionError{
		Query:    query,
		Check:    check,
		Expected: formatItems(want),
		Actual:   formatItems(got),
		Diff:     itemDiff(want, got, from, to),
	}
}

// itemDiff renders a unified diff, one item per line.
func itemDiff(a, b []string, from, to string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        itemLines(a),
		B:        itemLines(b),
		FromFile: from,
		ToFile:   to,
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return diff
}

func itemLines(items []string) []string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = it + "\n"
	}
	return lines
}

func formatItems(items []string) string {
	if len(items) == 0 {
		return "[] (0 items)"
	}
	return fmt.Sprintf("[%s] (%d items)", strings.Join(items, " "), len(items))
}

func displayName(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
