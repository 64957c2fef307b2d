package list

// Next advances h.
//
// For a static handle it returns the handle of the physical successor, or
// None at the end of the list; nothing is released.
//
// For a dynamic handle it moves the cursor to the next matching item and
// returns h itself. When no further item matches, the query and its header
// are released and None is returned; h is stale from then on.
func (s *Store[T]) Next(h Handle) Handle {
	hdr := s.handleHeader(h, "next")
	if hdr == nil {
		return Handle{}
	}
	if hdr.kind == kindStatic {
		next := s.successor(h.slot)
		if next == 0 {
			return Handle{}
		}
		return Handle{slot: next, gen: s.hdrs[next].gen}
	}
	return s.advance(h.slot)
}

// advance scans the successors of a dynamic header's cursor for the next
// match, releasing the header when the source runs out.
func (s *Store[T]) advance(slot uint32) Handle {
	q := s.hdrs[slot].query

	var cur uint32
	if c := s.hdrs[slot].cursor(); s.live(c) {
		cur = s.successor(c.slot)
	} else {
		s.logger.Warn("query cursor item was freed", "item", c)
	}

	for ; cur != 0; cur = s.successor(cur) {
		if s.matches(q, s.hdrs[cur].value) {
			s.hdrs[slot].self, s.hdrs[slot].selfGen = cur, s.hdrs[cur].gen
			return Handle{slot: slot, gen: s.hdrs[slot].gen}
		}
	}

	s.logger.Debug("query exhausted", "handle", Handle{slot: slot, gen: s.hdrs[slot].gen})
	s.release(slot)
	return Handle{}
}

// release frees a dynamic header and every dynamic child its query owns.
func (s *Store[T]) release(slot uint32) {
	if c, ok := s.hdrs[slot].query.(*compositeQuery[T]); ok {
		for _, ch := range [2]child{c.left, c.right} {
			if ch.static {
				continue
			}
			s.ownedChild(ch)
			s.release(ch.slot)
		}
	}
	s.releaseSlot(slot)
}

// Free releases a dynamic handle and everything its query owns, at any
// point of iteration. Freeing None or a static handle does nothing.
func (s *Store[T]) Free(h Handle) {
	hdr := s.handleHeader(h, "free")
	if hdr == nil || hdr.kind == kindStatic {
		return
	}
	s.logger.Debug("query freed", "handle", h)
	s.release(h.slot)
}
