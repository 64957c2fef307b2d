package list

import (
	"iter"
	"slices"
)

// Length counts the items h would still yield. It drains a copy, so h is
// not moved.
func (s *Store[T]) Length(h Handle) int {
	n := 0
	for c := s.Copy(h); !c.IsNone(); c = s.Next(c) {
		n++
	}
	return n
}

// GetIndex returns the i-th item of h without moving h.
//
// Index 0 is always the first item of h's source, matched or not. For i > 0
// the query is restarted from its source and the i-th match (counting from
// 0) is returned, or None if there are not that many. Matches are counted
// from the first match, not from the source item: when the source item does
// not match, index 1 is the second match and the first is never returned.
func (s *Store[T]) GetIndex(h Handle, i int) Item {
	if i < 0 {
		return Item{}
	}
	hdr := s.handleHeader(h, "get index")
	if hdr == nil {
		return Item{}
	}
	if i == 0 {
		if it := hdr.origin(); s.live(it) {
			return it
		}
		return Item{}
	}

	var c Handle
	if hdr.kind == kindStatic {
		c = h
	} else {
		c = s.rewind(s.copyHeader(h.slot, false))
	}
	for ; i > 0 && !c.IsNone(); i-- {
		c = s.Next(c)
	}
	it := s.Item(c)
	s.Free(c)
	return it
}

// rewind moves a dynamic header back to the first match of its source.
func (s *Store[T]) rewind(slot uint32) Handle {
	start := s.hdrs[slot].origin()
	s.hdrs[slot].self, s.hdrs[slot].selfGen = start.slot, start.gen
	if !s.live(start) {
		s.logger.Warn("query source item was freed", "item", start)
		s.release(slot)
		return Handle{}
	}
	if s.matches(s.hdrs[slot].query, s.hdrs[start.slot].value) {
		return Handle{slot: slot, gen: s.hdrs[slot].gen}
	}
	return s.advance(slot)
}

// All iterates h, consuming it. Breaking out of the loop frees h.
func (s *Store[T]) All(h Handle) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		cur := h
		defer func() { s.Free(cur) }()
		for ; !cur.IsNone(); cur = s.Next(cur) {
			if !yield(s.Item(cur)) {
				return
			}
		}
	}
}

// Values is All with each item's payload.
func (s *Store[T]) Values(h Handle) iter.Seq2[Item, *T] {
	return func(yield func(Item, *T) bool) {
		for it := range s.All(h) {
			if !yield(it, s.Value(it)) {
				return
			}
		}
	}
}

// Collect returns the items h would yield, leaving h untouched.
func (s *Store[T]) Collect(h Handle) []Item {
	return slices.Collect(s.All(s.Copy(h)))
}
