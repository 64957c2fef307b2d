package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/list"
	"github.com/roach88/siglist/internal/queryir"
	"github.com/roach88/siglist/internal/querysql"
	"github.com/roach88/siglist/internal/store"
	"github.com/roach88/siglist/internal/testutil"
)

// Harness runs scenarios against the list engine.
type Harness struct {
	preds  *Registry
	logger *slog.Logger
	mirror *store.Store
	ids    IDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used by the harness and the list store it
// creates for each run.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithMirror sets the store that receives the catalog and the result log.
// Without a mirror, scenarios with verify_sql get a private in-memory one
// and nothing is logged.
func WithMirror(st *store.Store) Option {
	return func(h *Harness) {
		h.mirror = st
	}
}

// WithIDGenerator sets the run id source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(h *Harness) {
		h.ids = ids
	}
}

// WithRegistry replaces the built-in predicates.
func WithRegistry(r *Registry) Option {
	return func(h *Harness) {
		h.preds = r
	}
}

// New creates a harness. Defaults: built-in predicates, discarded logs,
// UUIDv7 run ids, no mirror.
func New(opts ...Option) *Harness {
	h := &Harness{
		preds:  DefaultRegistry(),
		logger: slog.New(slog.DiscardHandler),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a fixed run id, so repeated runs produce
// identical results.
func Run(scenario *ir.Scenario) (*Result, error) {
	h := New(WithIDGenerator(testutil.NewFixedIDGenerator("")))
	return h.Run(context.Background(), scenario)
}

// run is the state of one scenario execution.
type run struct {
	*Harness
	ctx      context.Context
	scenario *ir.Scenario
	result   *Result
	items    *list.Store[ir.Signal]
	cat      *Catalog
	db       *store.Store
	sql      *querysql.SQLCompiler
	seq      *testutil.Counter
	handles  map[string]list.Handle
}

// Run executes a scenario. Each query definition is built in order,
// observed without being moved, and checked against its expectations.
// Afterwards every handle and item is released and the store must be
// empty.
//
// An error is returned only when the scenario cannot be run at all;
// failed expectations are reported in the Result.
func (h *Harness) Run(ctx context.Context, scenario *ir.Scenario) (*Result, error) {
	if err := ValidateScenario(scenario, h.preds); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	doc, err := ScenarioObject(scenario)
	if err != nil {
		return nil, err
	}
	hash, err := ir.ScenarioHash(doc)
	if err != nil {
		return nil, err
	}

	r := &run{
		Harness:  h,
		ctx:      ctx,
		scenario: scenario,
		result:   NewResult(scenario.Name, h.ids.Generate()),
		items:    list.NewStore[ir.Signal](list.WithLogger(h.logger)),
		sql:      h.preds.SQLCompiler(),
		seq:      testutil.NewCounter(),
		handles:  make(map[string]list.Handle),
	}
	r.result.ScenarioHash = hash

	r.cat, err = NewCatalog(r.items, scenario.Devices)
	if err != nil {
		return nil, err
	}

	r.db = h.mirror
	if r.db == nil && scenario.VerifySQL {
		if r.db, err = store.Open(":memory:"); err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer r.db.Close()
	}
	if r.db != nil {
		if err := r.db.WriteCatalog(ctx, r.cat.Mirror()); err != nil {
			return nil, err
		}
		if h.mirror != nil {
			if err := r.db.WriteScenario(ctx, hash, scenario.Name, doc); err != nil {
				return nil, err
			}
		}
	}

	h.logger.Info("scenario started",
		"scenario", scenario.Name,
		"run_id", r.result.RunID,
		"queries", len(scenario.Queries),
	)

	for _, def := range scenario.Queries {
		if err := r.step(def); err != nil {
			return nil, err
		}
	}
	r.release()

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", r.result.Pass,
		"errors", len(r.result.Errors),
	)
	return r.result, nil
}

// step builds, observes and checks one query definition. Only store
// failures are returned; everything else lands in the result.
func (r *run) step(def ir.QueryDef) error {
	hd, err := r.build(def)
	if err != nil {
		r.result.AddError(fmt.Sprintf("query %s: %v", def.Name, err))
	}
	r.handles[def.Name] = hd

	qr := r.observe(def, hd)
	r.result.Queries = append(r.result.Queries, qr)

	if r.mirror != nil {
		err := r.db.WriteResult(r.ctx, store.ResultRecord{
			RunID:        r.result.RunID,
			ScenarioHash: r.result.ScenarioHash,
			Seq:          qr.Seq,
			QueryName:    qr.Name,
			Fingerprint:  qr.Fingerprint,
			Items:        qr.Items,
		})
		if err != nil {
			return err
		}
	}

	r.logger.Debug("query observed",
		"query", def.Name,
		"op", def.Op,
		"handle", hd,
		"items", len(qr.Items),
	)
	return nil
}

// build creates the handle for def. Operands are copied, so every earlier
// definition stays usable.
func (r *run) build(def ir.QueryDef) (list.Handle, error) {
	switch def.Op {
	case ir.OpList:
		it, err := r.cat.Resolve(def.Source)
		if err != nil {
			return list.Handle{}, err
		}
		return r.items.Handle(it), nil

	case ir.OpQuery:
		it, err := r.cat.Resolve(def.Source)
		if err != nil {
			return list.Handle{}, err
		}
		pred, _ := r.preds.Lookup(def.Predicate)
		buf, err := pred.Encode(r.cat, def.Args)
		if err != nil {
			return list.Handle{}, err
		}
		return r.items.NewQueryArgs(it, pred.ListPredicate(), buf)

	case ir.OpFilter:
		pred, _ := r.preds.Lookup(def.Predicate)
		buf, err := pred.Encode(r.cat, def.Args)
		if err != nil {
			return list.Handle{}, err
		}
		operand := r.items.Copy(r.handles[def.Left])
		hd, err := r.items.FilterArgs(operand, pred.ListPredicate(), buf)
		if err != nil {
			r.items.Free(operand)
		}
		return hd, err

	case ir.OpUnion:
		return r.items.Union(r.operands(def)), nil
	case ir.OpIntersection:
		return r.items.Intersection(r.operands(def)), nil
	case ir.OpDifference:
		return r.items.Difference(r.operands(def)), nil

	case ir.OpCopy:
		return r.items.Copy(r.handles[def.Left]), nil
	}
	return list.Handle{}, fmt.Errorf("unknown op %q", def.Op)
}

func (r *run) operands(def ir.QueryDef) (list.Handle, list.Handle) {
	return r.items.Copy(r.handles[def.Left]), r.items.Copy(r.handles[def.Right])
}

// observe records what hd yields without moving it, then checks def's
// expectations.
func (r *run) observe(def ir.QueryDef, hd list.Handle) QueryResult {
	qr := QueryResult{
		Seq:         r.seq.Next(),
		Name:        def.Name,
		Op:          def.Op,
		Description: "none",
		Items:       r.cat.Names(r.items.Collect(hd)),
		Length:      r.items.Length(hd),
	}

	var desc queryir.Query
	if !hd.IsNone() {
		var err error
		desc, err = r.describe(hd)
		if err != nil {
			r.result.AddError(fmt.Sprintf("query %s: describe: %v", def.Name, err))
		} else {
			qr.Description = queryir.Format(desc)
			if qr.Fingerprint, err = queryir.Fingerprint(desc); err != nil {
				r.result.AddError(fmt.Sprintf("query %s: fingerprint: %v", def.Name, err))
			}
		}
	}

	for _, err := range r.check(def, hd, qr) {
		r.result.AddError(err.Error())
	}

	if r.scenario.VerifySQL && desc != nil {
		sql, err := r.verifySQL(def.Name, desc, qr.Items)
		qr.SQL = sql
		if err != nil {
			r.result.AddError(err.Error())
		}
	}
	return qr
}

// describe returns hd's description with sources resolved to list
// positions.
func (r *run) describe(hd list.Handle) (queryir.Query, error) {
	desc, err := r.items.Describe(hd)
	if err != nil {
		return nil, err
	}
	return queryir.MapSources(desc, r.cat.MapSource)
}

// check compares an observation against def's expectations.
func (r *run) check(def ir.QueryDef, hd list.Handle, qr QueryResult) []error {
	var errs []error
	if qr.Length != len(qr.Items) {
		errs = append(errs, &AssertionError{
			Query:    def.Name,
			Check:    CheckLength,
			Expected: fmt.Sprintf("length %d (items iterated)", len(qr.Items)),
			Actual:   fmt.Sprintf("length %d", qr.Length),
		})
	}
	if def.Expect != nil {
		if err := compareItems(def.Name, CheckItems, def.Expect, qr.Items); err != nil {
			errs = append(errs, err)
		}
	}
	if def.Length != nil && *def.Length != qr.Length {
		errs = append(errs, &AssertionError{
			Query:    def.Name,
			Check:    CheckLength,
			Expected: fmt.Sprintf("length %d", *def.Length),
			Actual:   fmt.Sprintf("length %d", qr.Length),
		})
	}
	for _, ix := range def.Index {
		got := r.cat.Name(r.items.GetIndex(hd, ix.At))
		if got != ix.Want {
			errs = append(errs, &AssertionError{
				Query:    def.Name,
				Check:    CheckIndex,
				Expected: fmt.Sprintf("index %d = %s", ix.At, displayName(ix.Want)),
				Actual:   fmt.Sprintf("index %d = %s", ix.At, displayName(got)),
			})
		}
	}
	return errs
}

// verifySQL runs the compiled description against the mirror and compares
// the rows with the engine's items.
func (r *run) verifySQL(name string, desc queryir.Query, items []string) (string, error) {
	sql, params, err := r.sql.Compile(desc)
	if err != nil {
		return "", fmt.Errorf("query %s: compile sql: %w", name, err)
	}
	rows, err := r.db.Select(r.ctx, sql, params...)
	if err != nil {
		return sql, fmt.Errorf("query %s: %w", name, err)
	}
	if err := compareItems(name, CheckSQL, rows, items); err != nil {
		return sql, err
	}
	return sql, nil
}

// release frees every handle in reverse definition order, then every
// catalog item, and records anything left behind.
func (r *run) release() {
	defs := slices.Clone(r.scenario.Queries)
	slices.Reverse(defs)
	for _, def := range defs {
		r.items.Free(r.handles[def.Name])
		delete(r.handles, def.Name)
	}
	r.cat.Release()

	r.result.Leaked = r.items.Stats()
	if r.result.Leaked != (list.Stats{}) {
		r.result.AddError(fmt.Sprintf("leak check: %d items, %d queries still allocated",
			r.result.Leaked.Items, r.result.Leaked.Queries))
	}
}
