package list

import "github.com/roach88/siglist/internal/argcodec"

// Union yields the items matched by a or b, in the order of a's source.
// A None side returns the other operand unchanged.
//
// Dynamic operands are consumed: the caller must not use a or b afterwards.
func (s *Store[T]) Union(a, b Handle) Handle {
	switch {
	case a.IsNone():
		return b
	case b.IsNone():
		return a
	}
	return s.combine(OpUnion, a, b)
}

// Intersection yields the items matched by both a and b. If either side is
// None the result is None and the other side is freed.
func (s *Store[T]) Intersection(a, b Handle) Handle {
	if a.IsNone() || b.IsNone() {
		s.Free(a)
		s.Free(b)
		return Handle{}
	}
	return s.combine(OpIntersection, a, b)
}

// Difference yields the items matched by a and not by b. A None b returns a
// unchanged; a None a frees b and returns None.
func (s *Store[T]) Difference(a, b Handle) Handle {
	switch {
	case a.IsNone():
		s.Free(b)
		return Handle{}
	case b.IsNone():
		return a
	}
	return s.combine(OpDifference, a, b)
}

// combine builds a composite over a's source. Static operands are
// referenced and match every item; dynamic operands become owned children.
// Invalid operands are reported and nothing is consumed.
func (s *Store[T]) combine(op Op, a, b Handle) Handle {
	ha := s.handleHeader(a, op.String())
	hb := s.handleHeader(b, op.String())
	if ha == nil || hb == nil {
		return Handle{}
	}
	origin := ha.origin()

	// One header cannot be owned twice.
	if a == b && ha.kind == kindDynamic {
		b = s.Copy(b)
	}

	q := &compositeQuery[T]{op: op, left: s.adopt(a), right: s.adopt(b)}
	return s.begin(origin, q)
}

func (s *Store[T]) adopt(h Handle) child {
	hdr := &s.hdrs[h.slot]
	if hdr.kind == kindStatic {
		return child{slot: h.slot, gen: h.gen, static: true}
	}
	hdr.owned = true
	return child{slot: h.slot, gen: h.gen}
}

// Filter narrows h to the items that also satisfy pred.
//
// For a static handle this is NewQuery from that item. For a dynamic
// handle the result is the intersection of h with a fresh query over h's
// source, and h is consumed. On an encoding error h is left untouched.
func (s *Store[T]) Filter(h Handle, pred Predicate[T], tags string, args ...any) (Handle, error) {
	if pred == nil {
		return Handle{}, &QueryError{Code: ErrCodeNoPredicate, Message: "predicate is nil"}
	}
	buf, err := argcodec.Encode(tags, args...)
	if err != nil {
		return Handle{}, encodeError(err)
	}
	return s.FilterArgs(h, pred, buf)
}

// FilterArgs is Filter with a prebuilt argument buffer.
func (s *Store[T]) FilterArgs(h Handle, pred Predicate[T], args *argcodec.Buffer) (Handle, error) {
	if pred == nil {
		return Handle{}, &QueryError{Code: ErrCodeNoPredicate, Message: "predicate is nil"}
	}
	hdr := s.handleHeader(h, "filter")
	if hdr == nil {
		return Handle{}, nil
	}
	static := hdr.kind == kindStatic

	fresh := s.newLeaf(hdr.origin(), pred, args)
	if static {
		return fresh, nil
	}
	return s.Intersection(h, fresh), nil
}
