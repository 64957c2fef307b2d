package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int32", Int32(42), "42"},
		{"negative int64", Int64(-100), "-100"},
		{"char", Char('o'), "111"},
		{"max int64", Int64(9223372036854775807), "9223372036854775807"},
		{"bool", Bool(true), "true"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of ints", Array{Int32(1), Int32(2), Int32(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Int64(1)}, `{"a":1}`},
		{"ref", Ref{Target: &Device{Name: "synth"}}, `{"ref":"*ir.Device"}`},
		{"nil ref", Ref{}, `{"ref":"nil"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int64(1),
		"alpha": Int64(2),
		"beta":  Object{"b": Int64(1), "a": Int64(2)},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"a":2,"b":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8
	obj := Object{
		"\uE000":     Int64(1),
		"\U00010000": Int64(2), // surrogate pair 0xD800 0xDC00
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(String("<in> & <out>"))
	require.NoError(t, err)
	assert.Equal(t, `"<in> & <out>"`, string(result))
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by "u2028" must stay escaped.
	result, err = MarshalCanonical(String(`x\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"float64", float64(3.14), "float"},
		{"float32", float32(3.14), "float"},
		{"nil", nil, "null"},
		{"float in slice", []any{int64(1), 2.5}, "float"},
		{"struct", struct{}{}, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	composed := "caf\u00E9"
	decomposed := "cafe\u0301"

	r1, err := MarshalCanonical(Object{composed: String(composed)})
	require.NoError(t, err)
	r2, err := MarshalCanonical(Object{decomposed: String(decomposed)})
	require.NoError(t, err)

	assert.Equal(t, r1, r2, "NFC normalization should make these equal")
}

func TestMarshalCanonicalGoContainers(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"names": []string{"b", "a"},
		"mixed": []any{"x", 3},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"mixed":["x",3],"names":["b","a"]}`, string(result))
}

func TestMarshalCanonicalNestedContainers(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"queries": []any{
			map[string]any{"seq": int64(1), "items": []string{"fx/mix"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"queries":[{"items":["fx/mix"],"seq":1}]}`, string(result))
}
