package list

import "fmt"

// Handle is a cursor over a list or a query. The zero Handle is None: an
// empty result or the end of iteration.
type Handle struct {
	slot uint32
	gen  uint32
}

// IsNone reports whether h is the empty handle.
func (h Handle) IsNone() bool {
	return h.slot == 0
}

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("h%d.%d", h.slot, h.gen)
}

// Item identifies one stored payload. The zero Item is None.
type Item struct {
	slot uint32
	gen  uint32
}

// IsNone reports whether it is the empty item.
func (it Item) IsNone() bool {
	return it.slot == 0
}

func (it Item) String() string {
	if it.IsNone() {
		return "none"
	}
	return fmt.Sprintf("i%d.%d", it.slot, it.gen)
}

// List is the head of a physical list. The zero List is empty.
type List struct {
	head Item
}

// First returns the head item, or None for an empty list.
func (l *List) First() Item {
	return l.head
}

// Empty reports whether the list has no items.
func (l *List) Empty() bool {
	return l.head.IsNone()
}

// Stats counts live arena records. A program that frees everything it
// creates ends with Queries == 0.
type Stats struct {
	// Items is the number of allocated items, linked or not.
	Items int `json:"items"`

	// Linked is the number of items currently in a list.
	Linked int `json:"linked"`

	// Queries is the number of live dynamic headers, composite children
	// included.
	Queries int `json:"queries"`

	// Owned is the number of dynamic headers owned by a composite.
	Owned int `json:"owned"`
}
