package list

import (
	"fmt"

	"github.com/roach88/siglist/internal/argcodec"
)

// Op is a set operation combining two handles.
type Op uint8

const (
	OpUnion Op = iota + 1
	OpIntersection
	OpDifference
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// query is the context of a dynamic header: *leafQuery or *compositeQuery.
type query[T any] interface {
	queryContext()
}

type leafQuery[T any] struct {
	pred Predicate[T]
	args *argcodec.Buffer
}

func (*leafQuery[T]) queryContext() {}

type compositeQuery[T any] struct {
	op          Op
	left, right child
}

func (*compositeQuery[T]) queryContext() {}

// child is an operand of a composite. Dynamic children are owned; static
// children are references to caller items.
type child struct {
	slot, gen uint32
	static    bool
}

func (s *Store[T]) matches(q query[T], item *T) bool {
	switch q := q.(type) {
	case *leafQuery[T]:
		return q.pred.Match(q.args.Args(), item)
	case *compositeQuery[T]:
		switch q.op {
		case OpUnion:
			return s.childMatches(q.left, item) || s.childMatches(q.right, item)
		case OpIntersection:
			return s.childMatches(q.left, item) && s.childMatches(q.right, item)
		case OpDifference:
			return s.childMatches(q.left, item) && !s.childMatches(q.right, item)
		}
		panic(fmt.Sprintf("list: composite with unknown %v", q.op))
	}
	panic(fmt.Sprintf("list: unknown query context %T", q))
}

func (s *Store[T]) childMatches(c child, item *T) bool {
	if c.static {
		return true
	}
	return s.matches(s.ownedChild(c).query, item)
}

func (s *Store[T]) ownedChild(c child) *header[T] {
	h := s.lookup(c.slot, c.gen)
	if h == nil || h.kind != kindDynamic || !h.owned {
		panic(fmt.Sprintf("list: composite child %d.%d is not an owned query", c.slot, c.gen))
	}
	return h
}

// NewQuery creates a dynamic handle over the list starting at source,
// yielding the items for which pred holds. args are encoded with tags (see
// internal/argcodec) and handed back to pred on every evaluation.
//
// The handle is None when source is None or nothing matches. A nil pred or
// an argument list that does not fit tags returns a *QueryError.
func (s *Store[T]) NewQuery(source Item, pred Predicate[T], tags string, args ...any) (Handle, error) {
	if pred == nil {
		return Handle{}, &QueryError{Code: ErrCodeNoPredicate, Message: "predicate is nil"}
	}
	buf, err := argcodec.Encode(tags, args...)
	if err != nil {
		return Handle{}, encodeError(err)
	}
	return s.newLeaf(source, pred, buf), nil
}

// NewQueryArgs is NewQuery with a prebuilt argument buffer, typically from
// argcodec.Builder. A nil buffer means no arguments.
func (s *Store[T]) NewQueryArgs(source Item, pred Predicate[T], args *argcodec.Buffer) (Handle, error) {
	if pred == nil {
		return Handle{}, &QueryError{Code: ErrCodeNoPredicate, Message: "predicate is nil"}
	}
	return s.newLeaf(source, pred, args), nil
}

func (s *Store[T]) newLeaf(source Item, pred Predicate[T], args *argcodec.Buffer) Handle {
	if source.IsNone() {
		return Handle{}
	}
	if s.staticHeader(source) == nil {
		s.logger.Warn("query on invalid source item", "item", source)
		return Handle{}
	}
	return s.begin(source, &leafQuery[T]{pred: pred, args: args})
}

// begin allocates a dynamic header over the list starting at origin and
// positions it on the first match.
func (s *Store[T]) begin(origin Item, q query[T]) Handle {
	slot := s.alloc(header[T]{
		kind:     kindDynamic,
		self:     origin.slot,
		selfGen:  origin.gen,
		start:    origin.slot,
		startGen: origin.gen,
		query:    q,
	})
	if !s.live(origin) {
		s.logger.Warn("query source item was freed", "item", origin)
		s.release(slot)
		return Handle{}
	}
	if s.matches(q, s.hdrs[origin.slot].value) {
		return Handle{slot: slot, gen: s.hdrs[slot].gen}
	}
	return s.advance(slot)
}
