package argcodec

import (
	"strconv"
	"strings"
)

// Kind is a single argument tag character.
type Kind byte

// Argument kinds.
const (
	KindInt32   Kind = 'i'
	KindInt64   Kind = 'h'
	KindChar    Kind = 'c'
	KindString  Kind = 's'
	KindPointer Kind = 'v'
)

// elemSize is the packed width of one element; strings are variable.
func (k Kind) elemSize() int {
	switch k {
	case KindInt32, KindChar:
		return 4
	case KindInt64, KindPointer:
		return 8
	}
	return 0
}

func (k Kind) valid() bool {
	switch k {
	case KindInt32, KindInt64, KindChar, KindString, KindPointer:
		return true
	}
	return false
}

// Tag is one parsed entry of a tag string.
type Tag struct {
	Kind Kind

	// Count is the number of packed elements; 1 for scalars.
	Count int

	// Array is true when the tag carried an explicit repeat count.
	Array bool

	// pos is the offset of the tag character in its tag string.
	pos int
}

// String renders the tag back in tag-string form.
func (t Tag) String() string {
	if !t.Array {
		return string(rune(t.Kind))
	}
	return string(rune(t.Kind)) + strconv.Itoa(t.Count)
}

// ParseTags parses a tag string. An empty string is valid and describes a
// predicate with no arguments.
func ParseTags(tags string) ([]Tag, error) {
	var out []Tag
	for i := 0; i < len(tags); {
		k := Kind(tags[i])
		if !k.valid() {
			return nil, newError(ErrCodeUnknownTag, tags, i, "unknown type tag %q", tags[i])
		}

		tag := Tag{Kind: k, Count: 1, pos: i}
		j := i + 1
		for j < len(tags) && tags[j] >= '0' && tags[j] <= '9' {
			j++
		}
		if j > i+1 {
			n, err := strconv.Atoi(tags[i+1 : j])
			if err != nil || n <= 0 {
				return nil, newError(ErrCodeBadCount, tags, i+1, "invalid repeat count %q", tags[i+1:j])
			}
			tag.Count = n
			tag.Array = true
		}
		out = append(out, tag)
		i = j
	}
	return out, nil
}

// FormatTags renders parsed tags back into a tag string.
func FormatTags(tags []Tag) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(t.String())
	}
	return b.String()
}
