package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/siglist/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Scenario errors (E101-E103)
	ErrScenarioNameEmpty = "E101" // name is required
	ErrScenarioNoDevices = "E102" // at least one device required
	ErrScenarioNoQueries = "E103" // at least one query required

	// Catalog errors (E104-E109)
	ErrInvalidDeviceName = "E104" // empty, reserved or containing '/'
	ErrDuplicateName     = "E105" // duplicate device, signal or query name
	ErrInvalidSignal     = "E106" // bad direction, type or length

	// Query definition errors (E110-E119)
	ErrUnknownOp        = "E110" // op is not a known operation
	ErrUnknownSource    = "E111" // source names no list or signal
	ErrUnresolvedRef    = "E112" // left/right is not an earlier query
	ErrMissingPredicate = "E113" // query/filter without predicate
	ErrUnusedField      = "E114" // field not used by the op
	ErrInvalidExpect    = "E115" // negative length or index
	ErrInvalidArgument  = "E116" // argument is not an integer or string
	ErrQueryNameEmpty   = "E117" // query name is required
	ErrUnknownPredicate = "E118" // predicate is not registered
)

// ReservedList is the name of the list holding every signal. No device may
// use it.
const ReservedList = "signals"

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled scenario. Returns all errors found (does not
// fail-fast). Predicate names are not checked here; the set of predicates
// belongs to whoever runs the scenario.
func Validate(s *ir.Scenario) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	if strings.TrimSpace(s.Name) == "" {
		add("name", ErrScenarioNameEmpty, "name is required and must be non-empty")
	}
	if len(s.Devices) == 0 {
		add("devices", ErrScenarioNoDevices, "at least one device is required")
	}
	if len(s.Queries) == 0 {
		add("queries", ErrScenarioNoQueries, "at least one query is required")
	}

	sources := map[string]bool{ReservedList: true}
	for i, dev := range s.Devices {
		field := fmt.Sprintf("devices[%d]", i)
		switch {
		case dev.Name == "":
			add(field+".name", ErrInvalidDeviceName, "name is required")
		case dev.Name == ReservedList:
			add(field+".name", ErrInvalidDeviceName, "name %q is reserved", dev.Name)
		case strings.Contains(dev.Name, "/"):
			add(field+".name", ErrInvalidDeviceName, "name %q must not contain '/'", dev.Name)
		case sources[dev.Name]:
			add(field+".name", ErrDuplicateName, "duplicate device name: %q", dev.Name)
		}
		sources[dev.Name] = true

		signals := make(map[string]bool)
		for j, sig := range dev.Signals {
			sf := fmt.Sprintf("%s.signals[%d]", field, j)
			if sig.Name == "" {
				add(sf+".name", ErrInvalidSignal, "name is required")
			} else if signals[sig.Name] {
				add(sf+".name", ErrDuplicateName, "duplicate signal name: %q", sig.Name)
			}
			signals[sig.Name] = true
			sources[dev.Name+"/"+sig.Name] = true

			if !ir.ValidDirections[ir.Direction(sig.Direction)] {
				add(sf+".direction", ErrInvalidSignal, "direction must be \"in\" or \"out\", got %q", sig.Direction)
			}
			if sig.Type != "" && !ir.ValidSignalTypes[sig.Type] {
				add(sf+".type", ErrInvalidSignal, "unknown type %q, must be one of f, d, i", sig.Type)
			}
			if sig.Length < 0 {
				add(sf+".length", ErrInvalidSignal, "length must be non-negative, got %d", sig.Length)
			}
		}
	}

	defined := make(map[string]bool)
	for i, q := range s.Queries {
		errs = append(errs, validateQueryDef(fmt.Sprintf("queries[%d]", i), q, sources, defined)...)
		if q.Name != "" {
			defined[q.Name] = true
		}
	}
	return errs
}

func validateQueryDef(field string, q ir.QueryDef, sources, defined map[string]bool) []ValidationError {
	var errs []ValidationError
	add := func(f, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field + "." + f, Message: fmt.Sprintf(format, args...), Code: code})
	}

	if q.Name == "" {
		add("name", ErrQueryNameEmpty, "name is required")
	} else if defined[q.Name] {
		add("name", ErrDuplicateName, "duplicate query name: %q", q.Name)
	}
	if !ir.ValidOps[q.Op] {
		add("op", ErrUnknownOp, "unknown op %q", q.Op)
		return errs
	}

	usesSource := q.Op == ir.OpQuery || q.Op == ir.OpList
	usesPredicate := q.Op == ir.OpQuery || q.Op == ir.OpFilter
	usesRight := q.Op == ir.OpUnion || q.Op == ir.OpIntersection || q.Op == ir.OpDifference

	if usesSource {
		if !sources[q.Source] {
			add("source", ErrUnknownSource, "unknown source %q", q.Source)
		}
		if q.Left != "" {
			add("left", ErrUnusedField, "left is not used by %s", q.Op)
		}
	} else {
		if q.Source != "" {
			add("source", ErrUnusedField, "source is not used by %s", q.Op)
		}
		if !defined[q.Left] {
			add("left", ErrUnresolvedRef, "%q is not an earlier query", q.Left)
		}
	}

	if usesPredicate {
		if q.Predicate == "" {
			add("predicate", ErrMissingPredicate, "%s requires a predicate", q.Op)
		}
	} else if q.Predicate != "" || len(q.Args) > 0 {
		add("predicate", ErrUnusedField, "predicate is not used by %s", q.Op)
	}

	if usesRight {
		if !defined[q.Right] {
			add("right", ErrUnresolvedRef, "%q is not an earlier query", q.Right)
		}
	} else if q.Right != "" {
		add("right", ErrUnusedField, "right is not used by %s", q.Op)
	}

	for j, arg := range q.Args {
		switch arg.(type) {
		case int, int64, string:
		default:
			add(fmt.Sprintf("args[%d]", j), ErrInvalidArgument, "want integer or string, got %T", arg)
		}
	}
	if q.Length != nil && *q.Length < 0 {
		add("length", ErrInvalidExpect, "length must be non-negative, got %d", *q.Length)
	}
	for j, ix := range q.Index {
		if ix.At < 0 {
			add(fmt.Sprintf("index[%d].at", j), ErrInvalidExpect, "at must be non-negative, got %d", ix.At)
		}
	}
	return errs
}
