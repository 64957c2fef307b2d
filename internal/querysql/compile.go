package querysql

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	// sqlite3 dialect for goqu.Dialect("sqlite3")
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/queryir"
)

const (
	dialect = "sqlite3"

	tableListItems = "list_items"
	tableSignals   = "signals"

	colList     = "li.list"
	colPosition = "li.position"
	colSignalID = "li.signal_id"
	colID       = "s.id"
)

// Columns exposed to predicate SQL forms. Qualified with the signals alias.
const (
	ColDevice    = "s.device"
	ColName      = "s.name"
	ColDirection = "s.direction"
	ColLength    = "s.length"
	ColType      = "s.type"
	ColUnit      = "s.unit"
	ColIndex     = "s.idx"
)

// PredicateSQL renders a named predicate's arguments as a boolean SQL
// expression over the signals columns.
type PredicateSQL func(args []ir.Value) (goqu.Expression, error)

// SQLCompiler compiles query descriptions to SQL for SQLite.
type SQLCompiler struct {
	predicates map[string]PredicateSQL
}

// NewSQLCompiler creates a compiler with no predicates registered.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{predicates: make(map[string]PredicateSQL)}
}

// Register adds the SQL form of a named predicate, replacing any previous
// registration under that name.
func (c *SQLCompiler) Register(name string, form PredicateSQL) {
	c.predicates[name] = form
}

// Compile converts a description to parameterised SQL selecting
// (device, name) of every matching signal in list order.
//
// The outermost Source must be resolved (see queryir.MapSources).
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	src := queryir.SourceOf(q)
	if !src.Resolved() {
		return "", nil, fmt.Errorf("compile %s: source list not resolved", queryir.Format(q))
	}

	cond, err := c.condition(q)
	if err != nil {
		return "", nil, err
	}

	ds := goqu.Dialect(dialect).
		From(goqu.T(tableListItems).As("li")).
		Join(goqu.T(tableSignals).As("s"), goqu.On(goqu.I(colID).Eq(goqu.I(colSignalID)))).
		Select(goqu.I(ColDevice), goqu.I(ColName)).
		Where(
			goqu.I(colList).Eq(src.List),
			goqu.I(colPosition).Gte(src.Position),
			cond,
		).
		Order(goqu.I(colPosition).Asc()).
		Prepared(true)

	sql, params, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("render sql: %w", err)
	}
	return sql, params, nil
}

// condition returns the match condition of a node, ignoring its Source.
func (c *SQLCompiler) condition(q queryir.Query) (goqu.Expression, error) {
	switch n := q.(type) {
	case queryir.Static:
		return goqu.L("1 = 1"), nil
	case queryir.Leaf:
		form, ok := c.predicates[n.Predicate]
		if !ok {
			return nil, fmt.Errorf("predicate %q has no SQL form", n.Predicate)
		}
		expr, err := form(n.Args)
		if err != nil {
			return nil, fmt.Errorf("predicate %q: %w", n.Predicate, err)
		}
		return expr, nil
	case queryir.Composite:
		left, err := c.condition(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.condition(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case queryir.OpUnion:
			return goqu.Or(left, right), nil
		case queryir.OpIntersection:
			return goqu.And(left, right), nil
		case queryir.OpDifference:
			return goqu.And(left, goqu.L("NOT (?)", right)), nil
		}
		return nil, fmt.Errorf("unsupported op %q", n.Op)
	}
	return nil, fmt.Errorf("unsupported query type: %T", q)
}
