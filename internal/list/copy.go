package list

import "fmt"

// Copy returns an independent handle with the same query, cursor and
// source. Composite queries are cloned all the way down, so advancing or
// freeing the copy never affects h.
//
// Static handles carry no state of their own; Copy returns h itself.
func (s *Store[T]) Copy(h Handle) Handle {
	hdr := s.handleHeader(h, "copy")
	if hdr == nil {
		return Handle{}
	}
	if hdr.kind == kindStatic {
		return h
	}
	slot := s.copyHeader(h.slot, false)
	return Handle{slot: slot, gen: s.hdrs[slot].gen}
}

func (s *Store[T]) copyHeader(slot uint32, owned bool) uint32 {
	src := s.hdrs[slot]
	q := s.cloneQuery(src.query)
	return s.alloc(header[T]{
		kind:     kindDynamic,
		self:     src.self,
		selfGen:  src.selfGen,
		start:    src.start,
		startGen: src.startGen,
		query:    q,
		owned:    owned,
	})
}

func (s *Store[T]) cloneQuery(q query[T]) query[T] {
	switch q := q.(type) {
	case *leafQuery[T]:
		return &leafQuery[T]{pred: q.pred, args: q.args.Clone()}
	case *compositeQuery[T]:
		return &compositeQuery[T]{
			op:    q.op,
			left:  s.cloneChild(q.left),
			right: s.cloneChild(q.right),
		}
	}
	panic(fmt.Sprintf("list: unknown query context %T", q))
}

func (s *Store[T]) cloneChild(c child) child {
	if c.static {
		return c
	}
	s.ownedChild(c)
	slot := s.copyHeader(c.slot, true)
	return child{slot: slot, gen: s.hdrs[slot].gen}
}
