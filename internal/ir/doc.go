// Package ir provides the shared value and model types for siglist.
//
// This package contains type definitions and their canonical encodings only.
// All other internal packages import ir; ir imports nothing internal. This
// keeps ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Predicate arguments decode into the sealed Value variant, one concrete
//     type per argument tag (i, h, c, s, v)
//   - NO float types anywhere - catalog ranges use int64
//   - Opaque references are compared by identity and never serialized by address
//   - All JSON and YAML tags use snake_case
package ir
