package list

import (
	"fmt"

	"github.com/roach88/siglist/internal/argcodec"
	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/queryir"
)

// Describe returns a description of what h iterates. The cursor position is
// not part of the description. Sources carry a reference to the payload of
// the first source item in Origin.
func (s *Store[T]) Describe(h Handle) (queryir.Query, error) {
	if h.IsNone() {
		return nil, &QueryError{Code: ErrCodeInvalidHandle, Message: "describe of none"}
	}
	hdr := s.lookup(h.slot, h.gen)
	if hdr == nil {
		return nil, &QueryError{Code: ErrCodeInvalidHandle, Message: "describe of stale handle", Handle: h}
	}
	if hdr.kind == kindStatic {
		return queryir.Static{Source: s.source(Item{slot: h.slot, gen: h.gen})}, nil
	}
	return s.describe(hdr)
}

func (s *Store[T]) source(it Item) queryir.Source {
	var origin ir.Ref
	if s.live(it) {
		origin.Target = s.hdrs[it.slot].value
	}
	return queryir.Source{Origin: origin}
}

func (s *Store[T]) describe(hdr *header[T]) (queryir.Query, error) {
	src := s.source(hdr.origin())
	switch q := hdr.query.(type) {
	case *leafQuery[T]:
		args, err := argcodec.Decode(q.args)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", predicateName(q.pred), err)
		}
		return queryir.Leaf{
			Source:    src,
			Predicate: predicateName(q.pred),
			Tags:      q.args.TagString(),
			Args:      args,
		}, nil
	case *compositeQuery[T]:
		left, err := s.describeChild(q.left)
		if err != nil {
			return nil, err
		}
		right, err := s.describeChild(q.right)
		if err != nil {
			return nil, err
		}
		return queryir.Composite{Source: src, Op: queryir.Op(q.op.String()), Left: left, Right: right}, nil
	}
	panic(fmt.Sprintf("list: unknown query context %T", hdr.query))
}

func (s *Store[T]) describeChild(c child) (queryir.Query, error) {
	if c.static {
		return queryir.Static{Source: s.source(Item{slot: c.slot, gen: c.gen})}, nil
	}
	return s.describe(s.ownedChild(c))
}
