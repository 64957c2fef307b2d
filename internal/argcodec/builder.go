package argcodec

// Builder accumulates already-typed arguments and their tags in one pass,
// so the tag string and the argument list can never drift apart.
//
//	buf, err := argcodec.NewBuilder().Int32(2).Int32(0).String("out").Build()
type Builder struct {
	tags []Tag
	args []any
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) add(k Kind, count int, array bool, arg any) *Builder {
	b.tags = append(b.tags, Tag{Kind: k, Count: count, Array: array, pos: -1})
	b.args = append(b.args, arg)
	return b
}

// Int32 appends an 'i' argument.
func (b *Builder) Int32(v int32) *Builder { return b.add(KindInt32, 1, false, v) }

// Int64 appends an 'h' argument.
func (b *Builder) Int64(v int64) *Builder { return b.add(KindInt64, 1, false, v) }

// Char appends a 'c' argument.
func (b *Builder) Char(v rune) *Builder { return b.add(KindChar, 1, false, v) }

// String appends an 's' argument.
func (b *Builder) String(v string) *Builder { return b.add(KindString, 1, false, v) }

// Pointer appends a 'v' argument.
func (b *Builder) Pointer(v any) *Builder { return b.add(KindPointer, 1, false, v) }

// The plural methods append an array tag with N = len(v). An empty v
// appends nothing, since the tag language has no zero-length arrays, so
// the tag string then holds one argument fewer than the calls made.

// Int32s appends an "iN" argument with N = len(v), or nothing for empty v.
func (b *Builder) Int32s(v []int32) *Builder { return b.addArray(KindInt32, len(v), v) }

// Int64s appends an "hN" argument with N = len(v), or nothing for empty v.
func (b *Builder) Int64s(v []int64) *Builder { return b.addArray(KindInt64, len(v), v) }

// Chars appends a "cN" argument with N = len(v), or nothing for empty v.
func (b *Builder) Chars(v []rune) *Builder { return b.addArray(KindChar, len(v), v) }

// Strings appends an "sN" argument with N = len(v), or nothing for empty v.
func (b *Builder) Strings(v []string) *Builder { return b.addArray(KindString, len(v), v) }

// Pointers appends a "vN" argument with N = len(v), or nothing for empty v.
func (b *Builder) Pointers(v []any) *Builder { return b.addArray(KindPointer, len(v), v) }

func (b *Builder) addArray(k Kind, n int, arg any) *Builder {
	if n == 0 {
		return b
	}
	return b.add(k, n, true, arg)
}

// TagString returns the tag string accumulated so far.
func (b *Builder) TagString() string {
	return FormatTags(b.tags)
}

// Build encodes the accumulated arguments. The typed setters fix every
// tag, so the only rejected values are strings holding a NUL byte, which
// fail with ErrCodeArgType.
func (b *Builder) Build() (*Buffer, error) {
	return encodeParsed(b.TagString(), b.tags, b.args)
}
