// Package argcodec packs typed predicate arguments into one flat buffer and
// reads them back inside predicates.
//
// TAG LANGUAGE:
//
// Arguments are described by a compact tag string, one tag per argument:
//
//	i   32-bit integer
//	h   64-bit integer
//	c   character, widened to 32 bits
//	s   string, copied with a NUL terminator
//	v   opaque reference, copied by value and never dereferenced
//
// A tag followed by a decimal count ("i3", "s2") takes a slice argument and
// packs exactly that many elements. The slice may be longer; extra
// elements are ignored.
//
// ENCODING:
//
// Encode is strictly two-pass over ONE argument list: the sizing pass
// validates every argument and computes the exact byte size, the fill pass
// serializes values contiguously in tag order into a buffer of that size.
// Because both passes walk the same slice they can never disagree.
//
// The buffer is byte-packed little-endian with no padding. References are
// not stored as addresses: each occupies an 8-byte slot holding an index
// into the buffer's reference table, which keeps them visible to the
// garbage collector.
//
// Strings conventionally come last in a tag string. Packing is unaligned,
// which Go reads safely, but keeping fixed-width values first keeps their
// offsets independent of string contents.
//
// READING:
//
// Predicates receive an Args cursor and read values in tag order:
//
//	func(args *argcodec.Args, sig *ir.Signal) bool {
//	    mod, rem := args.Int32(), args.Int32()
//	    return sig.Index%int64(mod) == int64(rem)
//	}
//
// Reading past the end yields zero values and records an error on the
// cursor (see Args.Err). Decode converts a whole buffer to ir.Values for
// descriptions and round-trip checks.
package argcodec
