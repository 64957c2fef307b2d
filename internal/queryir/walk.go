package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/siglist/internal/ir"
)

// MapSources returns a copy of q with fn applied to the Source of every
// node, children included. The first error stops the walk.
func MapSources(q Query, fn func(Source) (Source, error)) (Query, error) {
	switch n := q.(type) {
	case Static:
		src, err := fn(n.Source)
		if err != nil {
			return nil, err
		}
		n.Source = src
		return n, nil
	case Leaf:
		src, err := fn(n.Source)
		if err != nil {
			return nil, err
		}
		n.Source = src
		return n, nil
	case Composite:
		src, err := fn(n.Source)
		if err != nil {
			return nil, err
		}
		left, err := MapSources(n.Left, fn)
		if err != nil {
			return nil, err
		}
		right, err := MapSources(n.Right, fn)
		if err != nil {
			return nil, err
		}
		return Composite{Source: src, Op: n.Op, Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("MapSources: unknown query type %T", q)
}

// ToObject renders a description as an ir.Object, the form used for
// canonical JSON output and fingerprints.
func ToObject(q Query) (ir.Object, error) {
	switch n := q.(type) {
	case Static:
		return ir.Object{"kind": ir.String("static"), "source": sourceValue(n.Source)}, nil
	case Leaf:
		args := make(ir.Array, len(n.Args))
		copy(args, n.Args)
		return ir.Object{
			"kind":      ir.String("leaf"),
			"source":    sourceValue(n.Source),
			"predicate": ir.String(n.Predicate),
			"tags":      ir.String(n.Tags),
			"args":      args,
		}, nil
	case Composite:
		left, err := ToObject(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := ToObject(n.Right)
		if err != nil {
			return nil, err
		}
		return ir.Object{
			"kind":   ir.String("composite"),
			"op":     ir.String(string(n.Op)),
			"source": sourceValue(n.Source),
			"left":   left,
			"right":  right,
		}, nil
	}
	return nil, fmt.Errorf("ToObject: unknown query type %T", q)
}

func sourceValue(s Source) ir.Value {
	if !s.Resolved() {
		return s.Origin
	}
	return ir.Object{"list": ir.String(s.List), "position": ir.Int64(s.Position)}
}

// Fingerprint hashes the canonical form of a description.
func Fingerprint(q Query) (string, error) {
	obj, err := ToObject(q)
	if err != nil {
		return "", err
	}
	return ir.Fingerprint(obj)
}

// Format renders a description on one line, e.g.
//
//	union(index_mod(ii:2,0)@bus, index_lt(h:5)@bus)
func Format(q Query) string {
	var sb strings.Builder
	format(&sb, q)
	return sb.String()
}

func format(sb *strings.Builder, q Query) {
	switch n := q.(type) {
	case Static:
		sb.WriteString("list")
		writeSource(sb, n.Source)
	case Leaf:
		sb.WriteString(n.Predicate)
		sb.WriteByte('(')
		sb.WriteString(n.Tags)
		if len(n.Args) > 0 {
			sb.WriteByte(':')
			for i, arg := range n.Args {
				if i > 0 {
					sb.WriteByte(',')
				}
				writeValue(sb, arg)
			}
		}
		sb.WriteByte(')')
		writeSource(sb, n.Source)
	case Composite:
		sb.WriteString(string(n.Op))
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteString(", ")
		format(sb, n.Right)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%T>", q)
	}
}

func writeSource(sb *strings.Builder, s Source) {
	if !s.Resolved() {
		return
	}
	sb.WriteByte('@')
	sb.WriteString(s.List)
	if s.Position > 0 {
		fmt.Fprintf(sb, "+%d", s.Position)
	}
}

func writeValue(sb *strings.Builder, v ir.Value) {
	switch val := v.(type) {
	case ir.Int32:
		fmt.Fprintf(sb, "%d", int32(val))
	case ir.Int64:
		fmt.Fprintf(sb, "%d", int64(val))
	case ir.Char:
		fmt.Fprintf(sb, "%q", rune(val))
	case ir.String:
		fmt.Fprintf(sb, "%q", string(val))
	case ir.Ref:
		sb.WriteString("&")
		sb.WriteString(val.TypeName())
	case ir.Array:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, elem)
		}
		sb.WriteByte(']')
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}
