package argcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{"empty", "", "", 0},
		{"scalars", "ihcsv", "ihcsv", 5},
		{"array", "i3", "i3", 1},
		{"multi digit count", "h12s", "h12s", 2},
		{"mixed", "ii4s2", "ii4s2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := ParseTags(tt.input)
			require.NoError(t, err)
			assert.Len(t, tags, tt.count)
			assert.Equal(t, tt.want, FormatTags(tags))
		})
	}
}

func TestParseTagsCounts(t *testing.T) {
	tags, err := ParseTags("i3hs2")
	require.NoError(t, err)

	assert.Equal(t, Tag{Kind: KindInt32, Count: 3, Array: true, pos: 0}, tags[0])
	assert.Equal(t, Tag{Kind: KindInt64, Count: 1, Array: false, pos: 2}, tags[1])
	assert.Equal(t, Tag{Kind: KindString, Count: 2, Array: true, pos: 3}, tags[2])
}

func TestParseTagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  ErrorCode
		pos   int
	}{
		{"unknown tag", "ix", ErrCodeUnknownTag, 1},
		{"float tag", "f", ErrCodeUnknownTag, 0},
		{"leading digit", "3i", ErrCodeUnknownTag, 0},
		{"zero count", "i0", ErrCodeBadCount, 1},
		{"overflowing count", "i99999999999999999999", ErrCodeBadCount, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTags(tt.input)
			require.Error(t, err)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.pos, e.Pos)
			assert.True(t, IsTagError(err))
			assert.False(t, IsArgError(err))
		})
	}
}
