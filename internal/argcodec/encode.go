package argcodec

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/siglist/internal/ir"
)

// Buffer is an encoded, immutable argument list.
type Buffer struct {
	tags []Tag
	data []byte
	refs []any
}

// Encode packs args according to the tag string.
//
// Pass 1 validates every argument and computes the exact buffer size.
// Pass 2 serializes the same arguments into a buffer of that size.
// On any error nothing is allocated beyond the parsed tags and no buffer is
// returned.
func Encode(tags string, args ...any) (*Buffer, error) {
	parsed, err := ParseTags(tags)
	if err != nil {
		return nil, err
	}
	return encodeParsed(tags, parsed, args)
}

func encodeParsed(tags string, parsed []Tag, args []any) (*Buffer, error) {
	size, err := sizeOf(tags, parsed, args)
	if err != nil {
		return nil, err
	}

	buf := &Buffer{
		tags: parsed,
		data: make([]byte, 0, size),
	}
	buf.fill(parsed, args)

	if len(buf.data) != size {
		panic(fmt.Sprintf("argcodec: fill wrote %d bytes, sizing pass computed %d", len(buf.data), size))
	}
	return buf, nil
}

// sizeOf is the sizing pass. It stores nothing.
func sizeOf(tags string, parsed []Tag, args []any) (int, error) {
	if len(args) != len(parsed) {
		return 0, newError(ErrCodeArgCount, tags, -1,
			"tag string %q describes %d arguments, got %d", tags, len(parsed), len(args))
	}

	size := 0
	for n, tag := range parsed {
		arg := args[n]
		switch tag.Kind {
		case KindInt32, KindChar:
			ok := eachInt(arg, tag, func(v int64) bool {
				return v >= math.MinInt32 && v <= math.MaxInt32
			})
			if !ok {
				return 0, argTypeError(tags, tag, n, arg, "32-bit integer")
			}
			size += tag.Count * tag.Kind.elemSize()
		case KindInt64:
			if !eachInt(arg, tag, func(int64) bool { return true }) {
				return 0, argTypeError(tags, tag, n, arg, "64-bit integer")
			}
			size += tag.Count * tag.Kind.elemSize()
		case KindString:
			ok := eachString(arg, tag, func(s string) {
				size += len(s) + 1
			})
			if !ok {
				return 0, argTypeError(tags, tag, n, arg, "string without NUL bytes")
			}
		case KindPointer:
			if !eachRef(arg, tag, func(any) {}) {
				return 0, argTypeError(tags, tag, n, arg, "reference")
			}
			size += tag.Count * tag.Kind.elemSize()
		}
	}
	return size, nil
}

// fill is the serialization pass. Arguments were validated by sizeOf.
func (b *Buffer) fill(parsed []Tag, args []any) {
	for n, tag := range parsed {
		arg := args[n]
		switch tag.Kind {
		case KindInt32, KindChar:
			eachInt(arg, tag, func(v int64) bool {
				b.data = binary.LittleEndian.AppendUint32(b.data, uint32(int32(v)))
				return true
			})
		case KindInt64:
			eachInt(arg, tag, func(v int64) bool {
				b.data = binary.LittleEndian.AppendUint64(b.data, uint64(v))
				return true
			})
		case KindString:
			eachString(arg, tag, func(s string) {
				b.data = append(b.data, s...)
				b.data = append(b.data, 0)
			})
		case KindPointer:
			eachRef(arg, tag, func(v any) {
				b.data = binary.LittleEndian.AppendUint64(b.data, uint64(len(b.refs)))
				b.refs = append(b.refs, v)
			})
		}
	}
}

func argTypeError(tags string, tag Tag, n int, arg any, want string) *Error {
	if tag.Array {
		return newError(ErrCodeArgType, tags, tag.pos,
			"argument %d: expected slice of at least %d %s elements, got %T", n, tag.Count, want, arg)
	}
	return newError(ErrCodeArgType, tags, tag.pos, "argument %d: expected %s, got %T", n, want, arg)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// scalarInt converts any supported integer scalar.
func scalarInt(arg any) (int64, bool) {
	switch v := arg.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case ir.Int32:
		return int64(v), true
	case ir.Int64:
		return int64(v), true
	case ir.Char:
		return int64(v), true
	}
	return 0, false
}

func eachInteger[E integer](s []E, n int, fn func(int64) bool) bool {
	if len(s) < n {
		return false
	}
	for _, v := range s[:n] {
		if !fn(int64(v)) {
			return false
		}
	}
	return true
}

// eachInt calls fn for the tag's integer elements. It returns false when
// the argument has the wrong shape or fn rejects an element.
func eachInt(arg any, tag Tag, fn func(int64) bool) bool {
	if !tag.Array {
		v, ok := scalarInt(arg)
		return ok && fn(v)
	}

	switch s := arg.(type) {
	case []int:
		return eachInteger(s, tag.Count, fn)
	case []int32:
		return eachInteger(s, tag.Count, fn)
	case []int64:
		return eachInteger(s, tag.Count, fn)
	case []uint8:
		return eachInteger(s, tag.Count, fn)
	case []any:
		return eachAny(s, tag.Count, func(e any) bool {
			v, ok := scalarInt(e)
			return ok && fn(v)
		})
	case ir.Array:
		return eachAny(irElems(s), tag.Count, func(e any) bool {
			v, ok := scalarInt(e)
			return ok && fn(v)
		})
	}
	return false
}

func scalarString(arg any) (string, bool) {
	switch v := arg.(type) {
	case string:
		return v, true
	case ir.String:
		return string(v), true
	}
	return "", false
}

// terminable reports whether s can be stored NUL-terminated and read back
// whole.
func terminable(s string) bool {
	return strings.IndexByte(s, 0) < 0
}

func all[E any](s []E, fn func(E) bool) bool {
	return !slices.ContainsFunc(s, func(e E) bool { return !fn(e) })
}

func eachString(arg any, tag Tag, fn func(string)) bool {
	if !tag.Array {
		s, ok := scalarString(arg)
		if ok && terminable(s) {
			fn(s)
			return true
		}
		return false
	}

	var elems []any
	switch s := arg.(type) {
	case []string:
		if len(s) < tag.Count || !all(s[:tag.Count], terminable) {
			return false
		}
		for _, v := range s[:tag.Count] {
			fn(v)
		}
		return true
	case []any:
		elems = s
	case ir.Array:
		elems = irElems(s)
	default:
		return false
	}

	// validate before calling fn so a bad element never yields a partial walk
	ok := eachAny(elems, tag.Count, func(e any) bool {
		v, ok := scalarString(e)
		return ok && terminable(v)
	})
	if !ok {
		return false
	}
	for _, e := range elems[:tag.Count] {
		s, _ := scalarString(e)
		fn(s)
	}
	return true
}

func eachRef(arg any, tag Tag, fn func(any)) bool {
	if !tag.Array {
		if r, ok := arg.(ir.Ref); ok {
			arg = r.Target
		}
		fn(arg)
		return true
	}

	rv := reflect.ValueOf(arg)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Len() < tag.Count {
		return false
	}
	for i := 0; i < tag.Count; i++ {
		e := rv.Index(i).Interface()
		if r, ok := e.(ir.Ref); ok {
			e = r.Target
		}
		fn(e)
	}
	return true
}

func eachAny(s []any, n int, fn func(any) bool) bool {
	if len(s) < n {
		return false
	}
	for _, e := range s[:n] {
		if !fn(e) {
			return false
		}
	}
	return true
}

func irElems(arr ir.Array) []any {
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = v
	}
	return out
}

// Tags returns the parsed tags of the buffer.
func (b *Buffer) Tags() []Tag {
	if b == nil {
		return nil
	}
	return slices.Clone(b.tags)
}

// TagString renders the buffer's tags as a tag string.
func (b *Buffer) TagString() string {
	if b == nil {
		return ""
	}
	return FormatTags(b.tags)
}

// Len returns the packed size in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns a copy of the packed bytes.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return slices.Clone(b.data)
}

// Clone returns an independent copy. Reference targets are copied by value,
// as references always are.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	return &Buffer{
		tags: slices.Clone(b.tags),
		data: slices.Clone(b.data),
		refs: slices.Clone(b.refs),
	}
}

// Args returns a fresh read cursor positioned at the first argument.
func (b *Buffer) Args() *Args {
	return &Args{buf: b}
}
