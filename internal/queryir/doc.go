// Package queryir is a read-only description of a list query.
//
// A live query in internal/list is an opaque arena record: a cursor, a
// source origin and a query context that holds Go predicates and an
// encoded argument buffer. queryir turns that record into a plain tree that
// can be printed, hashed, validated and rendered to SQL by
// internal/querysql:
//
//	[list.Handle] → list.Store.Describe → [queryir.Query] → querysql → SQL
//	                                                      → ir.Fingerprint
//
// NODES:
//
//   - Static: a plain list handle. Matches every item from its origin on.
//   - Leaf: one named predicate plus its tag string and decoded arguments.
//   - Composite: union, intersection or difference of two sub-queries,
//     walked over the source of the left operand.
//
// Every node carries a Source. Describe fills only Source.Origin (a
// reference to the payload of the first item of the source list); callers
// that know how their items are grouped attach List and Position through
// MapSources before rendering SQL.
//
// SEALED INTERFACE:
//
// Query uses the marker method pattern so backends can switch over the
// node types exhaustively:
//
//	switch q := query.(type) {
//	case Static:
//	case Leaf:
//	case Composite:
//	}
//
// Only the Composite's own Source decides which items are visited. The
// Sources of its children are informational: a child contributes its match
// condition, never its items.
package queryir
