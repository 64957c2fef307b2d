// Package querysql renders query descriptions (internal/queryir) as
// parameterised SQLite SELECT statements over the catalog mirror kept by
// internal/store.
//
// The rendering mirrors how internal/list evaluates a query:
//
//   - the outermost node's Source picks the list and the starting position
//     (li.list = ? AND li.position >= ?);
//   - a Leaf contributes the SQL form of its named predicate;
//   - a Composite combines its children with OR, AND, or AND NOT;
//   - a Static child contributes 1 = 1, since it matches every item.
//
// Rows come back in list order (ORDER BY li.position), the order Next
// yields them in. All values are parameterised, never interpolated.
//
// Predicate SQL forms are registered by name with Register; the Go forms
// live next to them in the caller (see internal/harness).
package querysql
