package list

import (
	"fmt"
	"log/slog"
	"math"
)

type kind uint8

const (
	kindFree kind = iota
	kindStatic
	kindDynamic
)

// header is one arena record.
//
// For static headers self == own slot, always, and value is the payload.
// For dynamic headers self is the slot of the current matching item, start
// the slot of the first source item and query the query context; selfGen
// and startGen pin those slots to the items they held when recorded. Free
// headers reuse next as the free-list link.
type header[T any] struct {
	kind     kind
	gen      uint32
	next     uint32
	self     uint32
	selfGen  uint32
	start    uint32
	startGen uint32
	query    query[T]
	value    *T

	// owned marks a dynamic header held by a composite query.
	owned bool

	// linked marks a static header that is part of a list.
	linked bool
}

// Store is an arena of items and queries over items of type T.
type Store[T any] struct {
	hdrs   []header[T]
	free   uint32
	logger *slog.Logger
}

type options struct {
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger used for misuse diagnostics and lifecycle
// events. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewStore creates an empty store.
func NewStore[T any](opts ...Option) *Store[T] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	// Slot 0 is never handed out so the zero Handle and Item mean None.
	return &Store[T]{hdrs: make([]header[T], 1, 64), logger: o.logger}
}

func (s *Store[T]) alloc(h header[T]) uint32 {
	if s.free != 0 {
		slot := s.free
		s.free = s.hdrs[slot].next
		h.gen = s.hdrs[slot].gen
		s.hdrs[slot] = h
		return slot
	}
	if len(s.hdrs) == math.MaxUint32 {
		panic("list: arena exhausted")
	}
	h.gen = 1
	s.hdrs = append(s.hdrs, h)
	return uint32(len(s.hdrs) - 1)
}

func (s *Store[T]) releaseSlot(slot uint32) {
	gen := s.hdrs[slot].gen + 1
	if gen == 0 {
		gen = 1
	}
	s.hdrs[slot] = header[T]{kind: kindFree, gen: gen, next: s.free}
	s.free = slot
}

// lookup returns the live header at (slot, gen), or nil.
func (s *Store[T]) lookup(slot, gen uint32) *header[T] {
	if slot == 0 || int(slot) >= len(s.hdrs) {
		return nil
	}
	h := &s.hdrs[slot]
	if h.kind == kindFree || h.gen != gen {
		return nil
	}
	if h.kind == kindStatic && h.self != slot {
		panic(fmt.Sprintf("list: static header %d has self index %d", slot, h.self))
	}
	return h
}

func (s *Store[T]) staticHeader(it Item) *header[T] {
	h := s.lookup(it.slot, it.gen)
	if h == nil || h.kind != kindStatic {
		return nil
	}
	return h
}

// handleHeader resolves a handle for operation op. None resolves to nil
// silently; stale handles and handles owned by a composite are reported.
func (s *Store[T]) handleHeader(h Handle, op string) *header[T] {
	if h.IsNone() {
		return nil
	}
	hdr := s.lookup(h.slot, h.gen)
	if hdr == nil {
		s.logger.Warn(op+" on stale handle", "handle", h)
		return nil
	}
	if hdr.owned {
		s.logger.Warn(op+" on handle owned by a composite query", "handle", h)
		return nil
	}
	return hdr
}

func (s *Store[T]) itemAt(slot uint32) Item {
	if slot == 0 {
		return Item{}
	}
	return Item{slot: slot, gen: s.hdrs[slot].gen}
}

// live reports whether it still names a static item. A slot that was freed
// and handed to a new item does not match the recorded generation.
func (s *Store[T]) live(it Item) bool {
	return it.slot != 0 && s.hdrs[it.slot].kind == kindStatic && s.hdrs[it.slot].gen == it.gen
}

// origin is the first source item of a header.
func (h *header[T]) origin() Item {
	return Item{slot: h.start, gen: h.startGen}
}

// cursor is the item a header currently points at.
func (h *header[T]) cursor() Item {
	return Item{slot: h.self, gen: h.selfGen}
}

// successor returns the physical successor of a static slot, or 0 at the
// end of the list. A successor that has been freed ends the walk.
func (s *Store[T]) successor(slot uint32) uint32 {
	next := s.hdrs[slot].next
	if next != 0 && s.hdrs[next].kind != kindStatic {
		s.logger.Warn("list walk reached a freed item", "slot", next)
		return 0
	}
	return next
}

// Add allocates a zeroed item and links it at the head of l.
func (s *Store[T]) Add(l *List) Item {
	var next uint32
	if !l.head.IsNone() {
		if s.staticHeader(l.head) == nil {
			s.logger.Warn("add to list with stale head, starting a new list", "item", l.head)
		} else {
			next = l.head.slot
		}
	}

	slot := s.alloc(header[T]{kind: kindStatic, next: next, value: new(T), linked: true})
	gen := s.hdrs[slot].gen
	s.hdrs[slot].self, s.hdrs[slot].selfGen = slot, gen
	s.hdrs[slot].start, s.hdrs[slot].startGen = slot, gen

	l.head = s.itemAt(slot)
	return l.head
}

// Remove unlinks it from l. The item stays allocated; Remove of an item that
// is not in l does nothing.
func (s *Store[T]) Remove(l *List, it Item) {
	target := s.staticHeader(it)
	if target == nil {
		s.logger.Warn("remove of invalid item", "item", it)
		return
	}

	var prev uint32
	for cur := l.head.slot; cur != 0; cur = s.successor(cur) {
		if cur != it.slot {
			prev = cur
			continue
		}
		if prev == 0 {
			l.head = s.itemAt(target.next)
		} else {
			s.hdrs[prev].next = target.next
		}
		target.linked = false
		return
	}
}

// FreeItem releases an item that is no longer in any list. Freeing a
// linked or already freed item is reported and ignored.
func (s *Store[T]) FreeItem(it Item) {
	hdr := s.staticHeader(it)
	if hdr == nil {
		s.logger.Warn("free of invalid item", "item", it)
		return
	}
	if hdr.linked {
		s.logger.Warn("free of linked item, remove it first", "item", it)
		return
	}
	s.releaseSlot(it.slot)
}

// Value returns the payload of an item, or nil for None and stale items.
func (s *Store[T]) Value(it Item) *T {
	if it.IsNone() {
		return nil
	}
	hdr := s.staticHeader(it)
	if hdr == nil {
		s.logger.Warn("value of invalid item", "item", it)
		return nil
	}
	return hdr.value
}

// Handle returns the static handle of an item: a cursor over the item and
// its physical successors.
func (s *Store[T]) Handle(it Item) Handle {
	if it.IsNone() {
		return Handle{}
	}
	if s.staticHeader(it) == nil {
		s.logger.Warn("handle of invalid item", "item", it)
		return Handle{}
	}
	return Handle{slot: it.slot, gen: it.gen}
}

// Item returns the item a handle currently points at.
func (s *Store[T]) Item(h Handle) Item {
	hdr := s.handleHeader(h, "item")
	if hdr == nil {
		return Item{}
	}
	if hdr.kind == kindStatic {
		return Item{slot: h.slot, gen: h.gen}
	}
	if c := hdr.cursor(); s.live(c) {
		return c
	}
	s.logger.Warn("query cursor item was freed", "handle", h)
	return Item{}
}

// Stats counts the live records in the arena.
func (s *Store[T]) Stats() Stats {
	var st Stats
	for i := 1; i < len(s.hdrs); i++ {
		switch h := &s.hdrs[i]; h.kind {
		case kindStatic:
			st.Items++
			if h.linked {
				st.Linked++
			}
		case kindDynamic:
			st.Queries++
			if h.owned {
				st.Owned++
			}
		}
	}
	return st
}
