// Package list stores caller-owned items in intrusive singly linked lists
// and runs lazy queries over them.
//
// One cursor type, Handle, covers two kinds of collection:
//
//   - STATIC: a physical list of items. A static handle is the item itself;
//     Next walks to the physical successor and never destroys anything.
//   - DYNAMIC: a virtual list produced by NewQuery, Filter, Union,
//     Intersection, Difference or Copy. It owns a query context and a cursor
//     that sits on the current matching item of its source list.
//
// ARCHITECTURE:
//
// All headers live by value in an arena inside Store[T]. Handles and Items
// are (slot, generation) pairs into that arena, so a handle that outlives
// its header is detected instead of dereferenced:
//
//	Store[T].hdrs  [0: sentinel] [1: item] [2: item] [3: query] ...
//	                              ^ Item{1,g}         ^ Handle{3,g}
//
// A query context is a sealed variant:
//
//	leafQuery      predicate + encoded argument buffer (internal/argcodec)
//	compositeQuery op + two children (union, intersection, difference)
//
// Composite contexts own their dynamic children. Static children are only
// referenced; a static child matches every item.
//
// LIFECYCLE:
//
// Iteration over a dynamic handle is destructive. When Next finds no further
// match it releases the query context (children included) and the header,
// and returns the zero Handle. Every dynamic handle must therefore end in one
// of: exhaustion inside Next, Free, or being consumed as an operand of
// Union, Intersection, Difference or Filter. Copy first when a second
// traversal is needed; Length, GetIndex and Collect do that internally.
//
//	h, _ := s.NewQuery(l.First(), even, "ii", 2, 0)
//	for it := range s.All(h) { // frees h on break
//	    use(s.Value(it))
//	}
//
// CRITICAL PATTERNS:
//
// Ownership transfer: set operations consume their dynamic operands. After
// Union(a, b) the caller must not touch a or b; doing so is reported through
// the store logger and treated as a no-op. When an operation returns one of
// its operands unchanged (union or difference with an absent side) that
// operand is the result. When an operation yields nothing because one side
// is absent, the other side is freed.
//
// Misuse is never fatal: stale handles, handles owned by a composite and
// items freed while still linked are logged at Warn and ignored. A static
// header whose self index disagrees with its own slot, or a composite whose
// child is not an owned query, means the arena itself is corrupt and panics.
//
// The store is not safe for concurrent use.
package list
