package argcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/ir"
)

func TestArgsRoundTripMixedScalarsAndArray(t *testing.T) {
	dev := &ir.Device{Name: "synth"}
	buf, err := Encode("ihci3vs",
		int32(-7),
		int64(1)<<40,
		'o',
		[]int32{10, 20, 30},
		dev,
		"outsig",
	)
	require.NoError(t, err)

	args := buf.Args()
	assert.Equal(t, int32(-7), args.Int32())
	assert.Equal(t, int64(1)<<40, args.Int64())
	assert.Equal(t, 'o', args.Char())
	assert.Equal(t, []int32{10, 20, 30}, args.Int32s(3))
	assert.Same(t, dev, args.Pointer())
	assert.Equal(t, "outsig", args.String())
	assert.NoError(t, args.Err())
	assert.Equal(t, 0, args.Remaining())
}

func TestArgsStringArray(t *testing.T) {
	buf, err := Encode("s3", []string{"a", "", "ccc"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "", "ccc"}, buf.Args().Strings(3))
}

func TestArgsFreshCursorPerCall(t *testing.T) {
	buf, err := Encode("i", 9)
	require.NoError(t, err)

	assert.Equal(t, int32(9), buf.Args().Int32())
	assert.Equal(t, int32(9), buf.Args().Int32())
}

func TestArgsShortRead(t *testing.T) {
	buf, err := Encode("i", 1)
	require.NoError(t, err)

	args := buf.Args()
	assert.Equal(t, int32(1), args.Int32())
	assert.Equal(t, int64(0), args.Int64())
	assert.Equal(t, "", args.String())

	var e *Error
	require.ErrorAs(t, args.Err(), &e)
	assert.Equal(t, ErrCodeShortRead, e.Code)

	args.Reset()
	assert.NoError(t, args.Err())
	assert.Equal(t, int32(1), args.Int32())
}

func TestArgsNilBuffer(t *testing.T) {
	var buf *Buffer
	args := buf.Args()
	assert.Nil(t, args.Pointer())
	assert.Error(t, args.Err())
}

func TestDecode(t *testing.T) {
	dev := &ir.Device{Name: "synth"}
	buf, err := Encode("ih2cs2v", 4, []int64{5, 6}, 'x', []string{"in", "out"}, dev)
	require.NoError(t, err)

	vals, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, vals, 5)

	assert.Equal(t, ir.Int32(4), vals[0])
	assert.Equal(t, ir.Array{ir.Int64(5), ir.Int64(6)}, vals[1])
	assert.Equal(t, ir.Char('x'), vals[2])
	assert.Equal(t, ir.Array{ir.String("in"), ir.String("out")}, vals[3])
	assert.True(t, ir.Equal(ir.Ref{Target: dev}, vals[4]))
}

func TestEncodeAcceptsDecodedValues(t *testing.T) {
	orig, err := Encode("ics2", 3, 'q', []string{"x", "y"})
	require.NoError(t, err)
	vals, err := Decode(orig)
	require.NoError(t, err)

	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	again, err := Encode(orig.TagString(), args...)
	require.NoError(t, err)
	assert.Equal(t, orig.Bytes(), again.Bytes())
}

func TestBuilder(t *testing.T) {
	dev := &ir.Device{Name: "synth"}
	b := NewBuilder().
		Int32(2).
		Int64(-1).
		Char('i').
		Int32s([]int32{1, 2}).
		Pointers([]any{dev}).
		Strings(nil).
		String("tail")

	assert.Equal(t, "ihci2v1s", b.TagString(), "empty Strings adds no tag")

	buf, err := b.Build()
	require.NoError(t, err)
	expected, err := Encode("ihci2v1s", int32(2), int64(-1), 'i', []int32{1, 2}, []any{dev}, "tail")
	require.NoError(t, err)
	assert.Equal(t, expected.Bytes(), buf.Bytes())

	args := buf.Args()
	assert.Equal(t, int32(2), args.Int32())
	assert.Equal(t, int64(-1), args.Int64())
	assert.Equal(t, 'i', args.Char())
	assert.Equal(t, []int32{1, 2}, args.Int32s(2))
	assert.Equal(t, []any{dev}, args.Pointers(1))
	assert.Equal(t, "tail", args.String())
}

func TestBuilderRejectsNUL(t *testing.T) {
	buf, err := NewBuilder().Int32(1).Strings([]string{"ok", "a\x00b"}).Build()
	require.Error(t, err)
	assert.Nil(t, buf)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrCodeArgType, e.Code)
}
