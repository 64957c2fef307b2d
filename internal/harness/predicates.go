package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/roach88/siglist/internal/argcodec"
	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/list"
	"github.com/roach88/siglist/internal/querysql"
)

// Predicate is a named signal predicate usable from scenarios. It carries
// the Go form the list engine evaluates and the SQL form the mirror
// evaluates; the two must agree.
type Predicate struct {
	Name string

	// Tags is the fixed tag string. Ignored when Build is set.
	Tags string

	// Build encodes variable-length argument lists.
	Build func(c *Catalog, args []any) (*argcodec.Buffer, error)

	Match list.PredicateFunc[ir.Signal]
	SQL   querysql.PredicateSQL
}

// Encode packs scenario arguments for p. One-character strings are
// accepted for 'c' tags and device names for 'v' tags.
func (p *Predicate) Encode(c *Catalog, args []any) (*argcodec.Buffer, error) {
	if p.Build != nil {
		return p.Build(c, args)
	}
	tags, err := argcodec.ParseTags(p.Tags)
	if err != nil {
		return nil, err
	}
	coerced := slices.Clone(args)
	for i, tag := range tags {
		if i >= len(coerced) || tag.Array {
			break
		}
		s, ok := coerced[i].(string)
		if !ok {
			continue
		}
		switch tag.Kind {
		case argcodec.KindChar:
			if r := []rune(s); len(r) == 1 {
				coerced[i] = r[0]
			}
		case argcodec.KindPointer:
			dev := c.Device(s)
			if dev == nil {
				return nil, fmt.Errorf("argument %d: unknown device %q", i, s)
			}
			coerced[i] = dev
		}
	}
	return argcodec.Encode(p.Tags, coerced...)
}

// Registry holds the predicates scenarios may name.
type Registry struct {
	preds map[string]*Predicate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{preds: make(map[string]*Predicate)}
}

// Register adds p, replacing any predicate of the same name.
func (r *Registry) Register(p *Predicate) {
	r.preds[p.Name] = p
}

// Lookup returns the predicate named name.
func (r *Registry) Lookup(name string) (*Predicate, bool) {
	p, ok := r.preds[name]
	return p, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.preds))
	for name := range r.preds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListPredicate returns the engine form of p, named so descriptions carry
// the predicate name.
func (p *Predicate) ListPredicate() list.Predicate[ir.Signal] {
	return list.Named(p.Name, p.Match)
}

// SQLCompiler returns a compiler knowing the SQL form of every predicate.
func (r *Registry) SQLCompiler() *querysql.SQLCompiler {
	c := querysql.NewSQLCompiler()
	for name, p := range r.preds {
		if p.SQL != nil {
			c.Register(name, p.SQL)
		}
	}
	return c
}

// DefaultRegistry returns the built-in signal predicates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtins() {
		r.Register(p)
	}
	return r
}

func builtins() []*Predicate {
	return []*Predicate{
		{
			Name: "all",
			Match: func(*argcodec.Args, *ir.Signal) bool {
				return true
			},
			SQL: func([]ir.Value) (goqu.Expression, error) {
				return goqu.L("1 = 1"), nil
			},
		},
		{
			Name: "index_mod",
			Tags: "ii",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				m, rem := a.Int32(), a.Int32()
				return m != 0 && s.Index%int64(m) == int64(rem)
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				m, err := querysql.IntArg(args, 0)
				if err != nil {
					return nil, err
				}
				rem, err := querysql.IntArg(args, 1)
				if err != nil {
					return nil, err
				}
				if m == 0 {
					return goqu.L("1 = 0"), nil
				}
				return goqu.L("s.idx % ? = ?", m, rem), nil
			},
		},
		{
			Name: "index_lt",
			Tags: "h",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Index < a.Int64()
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				n, err := querysql.IntArg(args, 0)
				if err != nil {
					return nil, err
				}
				return goqu.I(querysql.ColIndex).Lt(n), nil
			},
		},
		{
			Name:  "index_in",
			Build: buildIndexIn,
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				n := int(a.Int32())
				return slices.Contains(a.Int64s(n), s.Index)
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				vals, err := countedArray(args, querysql.IntArg)
				if err != nil {
					return nil, err
				}
				if len(vals) == 0 {
					return goqu.L("1 = 0"), nil
				}
				return goqu.I(querysql.ColIndex).In(vals), nil
			},
		},
		{
			Name: "name_eq",
			Tags: "s",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Name == a.String()
			},
			SQL: stringColumn(querysql.ColName),
		},
		{
			Name: "name_prefix",
			Tags: "s",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return strings.HasPrefix(s.Name, a.String())
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				p, err := querysql.StringArg(args, 0)
				if err != nil {
					return nil, err
				}
				return goqu.L("substr(s.name, 1, length(?)) = ?", p, p), nil
			},
		},
		{
			Name: "direction",
			Tags: "c",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Direction.Char() == a.Char()
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				c, err := querysql.IntArg(args, 0)
				if err != nil {
					return nil, err
				}
				switch rune(c) {
				case 'i':
					return goqu.I(querysql.ColDirection).Eq(string(ir.DirectionIn)), nil
				case 'o':
					return goqu.I(querysql.ColDirection).Eq(string(ir.DirectionOut)), nil
				}
				return goqu.L("1 = 0"), nil
			},
		},
		{
			Name: "type",
			Tags: "c",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Type == a.Char()
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				c, err := querysql.IntArg(args, 0)
				if err != nil {
					return nil, err
				}
				return goqu.I(querysql.ColType).Eq(string(rune(c))), nil
			},
		},
		{
			Name: "length_ge",
			Tags: "i",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Length >= a.Int32()
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				n, err := querysql.IntArg(args, 0)
				if err != nil {
					return nil, err
				}
				return goqu.I(querysql.ColLength).Gte(n), nil
			},
		},
		{
			Name:  "device_in",
			Build: buildDeviceIn,
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				n := int(a.Int32())
				return s.Device != nil && slices.Contains(a.Strings(n), s.Device.Name)
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				names, err := countedArray(args, querysql.StringArg)
				if err != nil {
					return nil, err
				}
				if len(names) == 0 {
					return goqu.L("1 = 0"), nil
				}
				return goqu.I(querysql.ColDevice).In(names), nil
			},
		},
		{
			Name: "device_ptr",
			Tags: "v",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				dev, ok := a.Pointer().(*ir.Device)
				return ok && s.Device == dev
			},
			SQL: func(args []ir.Value) (goqu.Expression, error) {
				target, err := querysql.RefArg(args, 0)
				if err != nil {
					return nil, err
				}
				dev, ok := target.(*ir.Device)
				if !ok {
					return nil, fmt.Errorf("argument 0: want device, got %T", target)
				}
				return goqu.I(querysql.ColDevice).Eq(dev.Name), nil
			},
		},
		{
			Name: "unit_eq",
			Tags: "s",
			Match: func(a *argcodec.Args, s *ir.Signal) bool {
				return s.Unit == a.String()
			},
			SQL: stringColumn(querysql.ColUnit),
		},
	}
}

func stringColumn(col string) querysql.PredicateSQL {
	return func(args []ir.Value) (goqu.Expression, error) {
		v, err := querysql.StringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return goqu.I(col).Eq(v), nil
	}
}

// buildIndexIn encodes a list of indexes as "i" count followed by "hN".
func buildIndexIn(_ *Catalog, args []any) (*argcodec.Buffer, error) {
	vals := make([]int64, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case int:
			vals[i] = int64(v)
		case int64:
			vals[i] = v
		default:
			return nil, fmt.Errorf("argument %d: want integer index, got %T", i, a)
		}
	}
	return argcodec.NewBuilder().Int32(int32(len(vals))).Int64s(vals).Build()
}

// buildDeviceIn encodes a list of device names as "i" count followed by "sN".
func buildDeviceIn(_ *Catalog, args []any) (*argcodec.Buffer, error) {
	names := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf("argument %d: want device name, got %T", i, a)
		}
		names[i] = s
	}
	return argcodec.NewBuilder().Int32(int32(len(names))).Strings(names).Build()
}

// countedArray reads the "count, array" argument pair written by the
// variable-length builders. A zero count has no array argument.
func countedArray[E any](args []ir.Value, elem func([]ir.Value, int) (E, error)) ([]E, error) {
	n, err := querysql.IntArg(args, 0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	arr, err := querysql.ArrayArg(args, 1)
	if err != nil {
		return nil, err
	}
	if int64(len(arr)) != n {
		return nil, fmt.Errorf("count %d does not match %d elements", n, len(arr))
	}
	out := make([]E, len(arr))
	for i := range arr {
		if out[i], err = elem(arr, i); err != nil {
			return nil, err
		}
	}
	return out, nil
}
