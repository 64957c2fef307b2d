package argcodec

import (
	"bytes"
	"encoding/binary"
)

// Args is a sequential read cursor over an encoded Buffer.
// Values must be read in tag order; array tags are read with the plural
// methods using the tag's count.
type Args struct {
	buf *Buffer
	off int
	err error
}

// Err returns the first short-read error, or nil.
func (a *Args) Err() error {
	return a.err
}

// Remaining returns the number of unread bytes.
func (a *Args) Remaining() int {
	if a.buf == nil {
		return 0
	}
	return len(a.buf.data) - a.off
}

// Reset rewinds the cursor to the first argument.
func (a *Args) Reset() {
	a.off = 0
	a.err = nil
}

func (a *Args) take(n int) []byte {
	if a.err != nil {
		return nil
	}
	if a.Remaining() < n {
		a.err = newError(ErrCodeShortRead, a.buf.TagString(), -1,
			"read of %d bytes at offset %d exceeds buffer", n, a.off)
		return nil
	}
	b := a.buf.data[a.off : a.off+n]
	a.off += n
	return b
}

// Int32 reads an 'i' argument.
func (a *Args) Int32() int32 {
	b := a.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// Int64 reads an 'h' argument.
func (a *Args) Int64() int64 {
	b := a.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// Char reads a 'c' argument.
func (a *Args) Char() rune {
	return rune(a.Int32())
}

// String reads an 's' argument.
func (a *Args) String() string {
	if a.err != nil || a.buf == nil {
		a.take(1)
		return ""
	}
	rest := a.buf.data[a.off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		a.take(len(rest) + 1)
		return ""
	}
	s := string(rest[:end])
	a.off += end + 1
	return s
}

// Pointer reads a 'v' argument.
func (a *Args) Pointer() any {
	b := a.take(8)
	if b == nil {
		return nil
	}
	idx := binary.LittleEndian.Uint64(b)
	if idx >= uint64(len(a.buf.refs)) {
		return nil
	}
	return a.buf.refs[idx]
}

// Int32s reads an "iN" argument.
func (a *Args) Int32s(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = a.Int32()
	}
	return out
}

// Int64s reads an "hN" argument.
func (a *Args) Int64s(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = a.Int64()
	}
	return out
}

// Chars reads a "cN" argument.
func (a *Args) Chars(n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = a.Char()
	}
	return out
}

// Strings reads an "sN" argument.
func (a *Args) Strings(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = a.String()
	}
	return out
}

// Pointers reads a "vN" argument.
func (a *Args) Pointers(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = a.Pointer()
	}
	return out
}
