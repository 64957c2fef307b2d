// Package store keeps a SQLite mirror of a signal catalog and a log of
// scenario results.
//
// The mirror is the differential oracle for internal/list: the same lists
// that the harness builds in memory are written here as rows, and the SQL
// rendered by internal/querysql from a handle's description must select the
// same signals in the same order as iterating the handle.
//
// Tables:
//   - signals: one row per device/signal
//   - list_items: list membership and physical position (head = 0)
//   - scenarios: canonical scenario documents keyed by content hash
//   - query_results: the signals each named query yielded, per run
//
// # Critical Patterns
//
// Deterministic results: every read orders explicitly, list reads by
// position and log reads by seq, with COLLATE BINARY tiebreakers on text.
//
// Canonical storage: documents and result lists are stored as RFC 8785
// canonical JSON (internal/ir) so equal content is byte-equal.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Access goes through jmoiron/sqlx; Open(":memory:") gives a throwaway
// mirror on a single connection.
package store
