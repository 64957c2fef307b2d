package compiler

import (
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/siglist/internal/ir"
)

// CompileScenario parses a CUE value into a Scenario.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the scenario struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`scenario: evens: { ... }`)
//	s, err := CompileScenario(v.LookupPath(cue.ParsePath("scenario.evens")))
//
// Devices are a struct keyed by device name, signals a struct keyed by
// signal name; both keep their declaration order. Queries are a list.
func CompileScenario(v cue.Value) (*ir.Scenario, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &ir.Scenario{}

	// Scenario name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		s.Name = labels[len(labels)-1].String()
	}

	var err error
	if s.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}

	if vs := v.LookupPath(cue.ParsePath("verify_sql")); vs.Exists() {
		if s.VerifySQL, err = vs.Bool(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if s.Devices, err = parseDevices(v); err != nil {
		return nil, err
	}
	if len(s.Devices) == 0 {
		return nil, &CompileError{
			Field:   "devices",
			Message: "at least one device is required",
			Pos:     v.Pos(),
		}
	}

	if s.Queries, err = parseQueries(v); err != nil {
		return nil, err
	}
	if len(s.Queries) == 0 {
		return nil, &CompileError{
			Field:   "queries",
			Message: "at least one query is required",
			Pos:     v.Pos(),
		}
	}
	return s, nil
}

// CompileString compiles every scenario under the top-level "scenario"
// struct of a CUE source. filename is used in error positions.
func CompileString(src, filename string) ([]*ir.Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileAll(v)
}

// CompileFile loads a single CUE file and compiles its scenarios.
func CompileFile(path string) ([]*ir.Scenario, error) {
	cfg := &load.Config{Dir: filepath.Dir(path)}
	instances := load.Instances([]string{filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileAll(v)
}

func compileAll(v cue.Value) ([]*ir.Scenario, error) {
	root := v.LookupPath(cue.ParsePath("scenario"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "scenario",
			Message: "no scenario struct found",
			Pos:     v.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []*ir.Scenario
	for iter.Next() {
		s, err := CompileScenario(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// parseDevices extracts the device catalog.
func parseDevices(v cue.Value) ([]ir.DeviceSpec, error) {
	devicesVal := v.LookupPath(cue.ParsePath("devices"))
	if !devicesVal.Exists() {
		return nil, nil
	}

	iter, err := devicesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var devices []ir.DeviceSpec
	for iter.Next() {
		dev := ir.DeviceSpec{Name: iter.Label()}

		signalsVal := iter.Value().LookupPath(cue.ParsePath("signals"))
		if signalsVal.Exists() {
			sigIter, err := signalsVal.Fields()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for sigIter.Next() {
				sig, err := parseSignal(sigIter.Label(), sigIter.Value())
				if err != nil {
					return nil, err
				}
				dev.Signals = append(dev.Signals, sig)
			}
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func parseSignal(name string, v cue.Value) (ir.SignalSpec, error) {
	sig := ir.SignalSpec{Name: name}

	dirVal := v.LookupPath(cue.ParsePath("direction"))
	if !dirVal.Exists() {
		return sig, &CompileError{
			Field:   "direction",
			Message: fmt.Sprintf("signal %q: direction is required", name),
			Pos:     v.Pos(),
		}
	}
	dir, err := dirVal.String()
	if err != nil {
		return sig, formatCUEError(err)
	}
	sig.Direction = dir

	if lv := v.LookupPath(cue.ParsePath("length")); lv.Exists() {
		n, err := intValue(lv, "length")
		if err != nil {
			return sig, err
		}
		sig.Length = int32(n)
	}
	if sig.Type, err = optionalString(v, "type"); err != nil {
		return sig, err
	}
	if sig.Unit, err = optionalString(v, "unit"); err != nil {
		return sig, err
	}
	return sig, nil
}

// parseQueries extracts the query definitions in order.
func parseQueries(v cue.Value) ([]ir.QueryDef, error) {
	queriesVal := v.LookupPath(cue.ParsePath("queries"))
	if !queriesVal.Exists() {
		return nil, nil
	}

	iter, err := queriesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []ir.QueryDef
	for iter.Next() {
		def, err := parseQueryDef(iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseQueryDef(v cue.Value) (ir.QueryDef, error) {
	var def ir.QueryDef

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"name", &def.Name},
		{"op", &def.Op},
		{"source", &def.Source},
		{"predicate", &def.Predicate},
		{"left", &def.Left},
		{"right", &def.Right},
	} {
		s, err := optionalString(v, f.name)
		if err != nil {
			return def, err
		}
		*f.dst = s
	}
	if def.Name == "" || def.Op == "" {
		return def, &CompileError{
			Field:   "queries",
			Message: "each query needs a name and an op",
			Pos:     v.Pos(),
		}
	}

	if argsVal := v.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
		args, err := parseArgs(argsVal)
		if err != nil {
			return def, err
		}
		def.Args = args
	}

	if expectVal := v.LookupPath(cue.ParsePath("expect")); expectVal.Exists() {
		expect := []string{}
		iter, err := expectVal.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return def, formatCUEError(err)
			}
			expect = append(expect, s)
		}
		def.Expect = expect
	}

	if lv := v.LookupPath(cue.ParsePath("length")); lv.Exists() {
		n, err := intValue(lv, "length")
		if err != nil {
			return def, err
		}
		length := int(n)
		def.Length = &length
	}

	if idxVal := v.LookupPath(cue.ParsePath("index")); idxVal.Exists() {
		iter, err := idxVal.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for iter.Next() {
			at, err := intValue(iter.Value().LookupPath(cue.ParsePath("at")), "index.at")
			if err != nil {
				return def, err
			}
			want, err := optionalString(iter.Value(), "want")
			if err != nil {
				return def, err
			}
			def.Index = append(def.Index, ir.IndexCheck{At: int(at), Want: want})
		}
	}
	return def, nil
}

// parseArgs converts a CUE list of predicate arguments. Only integers and
// strings are allowed.
func parseArgs(v cue.Value) ([]any, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var args []any
	for iter.Next() {
		elem := iter.Value()
		switch elem.IncompleteKind() {
		case cue.IntKind:
			n, err := elem.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			args = append(args, int(n))
		case cue.StringKind:
			s, err := elem.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			args = append(args, s)
		case cue.FloatKind, cue.NumberKind:
			return nil, &CompileError{
				Field:   "args",
				Message: "float arguments are forbidden - use int instead",
				Pos:     elem.Pos(),
			}
		default:
			return nil, &CompileError{
				Field:   "args",
				Message: fmt.Sprintf("unsupported argument kind: %v", elem.IncompleteKind()),
				Pos:     elem.Pos(),
			}
		}
	}
	return args, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func intValue(v cue.Value, field string) (int64, error) {
	if !v.Exists() {
		return 0, &CompileError{Field: field, Message: "value is required", Pos: v.Pos()}
	}
	if k := v.IncompleteKind(); k != cue.IntKind {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("want int, got %v", k),
			Pos:     v.Pos(),
		}
	}
	n, err := v.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
