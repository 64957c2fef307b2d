package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixerSrc = `
scenario: mixer: {
	description: "Index queries over a two-device catalog"
	verify_sql:  true

	devices: {
		synth: signals: {
			freq: {direction: "out", unit: "Hz"}
			gain: {direction: "in", type: "i", length: 2}
		}
		ctl: signals: knob: {direction: "out"}
	}

	queries: [
		{name: "evens", op: "query", source: "signals", predicate: "index_mod", args: [2, 0], expect: ["synth/freq", "ctl/knob"]},
		{name: "named", op: "query", source: "synth", predicate: "name_eq", args: ["gain"], length: 1},
		{name: "both", op: "union", left: "evens", right: "named", index: [{at: 1, want: "synth/gain"}, {at: 5}]},
	]
}
`

func TestCompileScenarioBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(mixerSrc)
	require.NoError(t, v.Err())

	s, err := CompileScenario(v.LookupPath(cue.ParsePath("scenario.mixer")))
	require.NoError(t, err)

	assert.Equal(t, "mixer", s.Name)
	assert.Equal(t, "Index queries over a two-device catalog", s.Description)
	assert.True(t, s.VerifySQL)

	require.Len(t, s.Devices, 2)
	assert.Equal(t, "synth", s.Devices[0].Name)
	assert.Equal(t, "ctl", s.Devices[1].Name)
	require.Len(t, s.Devices[0].Signals, 2)
	assert.Equal(t, "freq", s.Devices[0].Signals[0].Name)
	assert.Equal(t, "out", s.Devices[0].Signals[0].Direction)
	assert.Equal(t, "Hz", s.Devices[0].Signals[0].Unit)
	assert.Equal(t, "i", s.Devices[0].Signals[1].Type)
	assert.Equal(t, int32(2), s.Devices[0].Signals[1].Length)

	require.Len(t, s.Queries, 3)
	evens := s.Queries[0]
	assert.Equal(t, "query", evens.Op)
	assert.Equal(t, []any{2, 0}, evens.Args)
	assert.Equal(t, []string{"synth/freq", "ctl/knob"}, evens.Expect)

	named := s.Queries[1]
	assert.Equal(t, []any{"gain"}, named.Args)
	require.NotNil(t, named.Length)
	assert.Equal(t, 1, *named.Length)
	assert.Nil(t, named.Expect)

	both := s.Queries[2]
	assert.Equal(t, "evens", both.Left)
	assert.Equal(t, "named", both.Right)
	require.Len(t, both.Index, 2)
	assert.Equal(t, 1, both.Index[0].At)
	assert.Equal(t, "synth/gain", both.Index[0].Want)
	assert.Equal(t, "", both.Index[1].Want)

	assert.Empty(t, Validate(s))
}

func TestCompileString(t *testing.T) {
	scenarios, err := CompileString(mixerSrc, "mixer.cue")
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "mixer", scenarios[0].Name)
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixer.cue")
	require.NoError(t, os.WriteFile(path, []byte(mixerSrc), 0o644))

	scenarios, err := CompileFile(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Len(t, scenarios[0].Queries, 3)
}

func TestCompileScenarioMissingDevices(t *testing.T) {
	_, err := CompileString(`
		scenario: empty: {
			queries: [{name: "all", op: "list", source: "signals"}]
		}
	`, "empty.cue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "devices")
	assert.Contains(t, err.Error(), "at least one device")
}

func TestCompileScenarioMissingQueries(t *testing.T) {
	_, err := CompileString(`
		scenario: idle: {
			devices: synth: signals: freq: direction: "out"
		}
	`, "idle.cue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "queries")
}

func TestCompileScenarioMissingDirection(t *testing.T) {
	_, err := CompileString(`
		scenario: bad: {
			devices: synth: signals: freq: unit: "Hz"
			queries: [{name: "all", op: "list", source: "signals"}]
		}
	`, "bad.cue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "direction is required")
}

func TestCompileScenarioFloatArgForbidden(t *testing.T) {
	_, err := CompileString(`
		scenario: floaty: {
			devices: synth: signals: freq: direction: "out"
			queries: [{name: "q", op: "query", source: "signals", predicate: "index_lt", args: [1.5]}]
		}
	`, "floaty.cue")

	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "args", ce.Field)
	assert.Contains(t, ce.Message, "float")
	assert.True(t, ce.Pos.IsValid())
}

func TestCompileScenarioQueryWithoutOp(t *testing.T) {
	_, err := CompileString(`
		scenario: noop: {
			devices: synth: signals: freq: direction: "out"
			queries: [{name: "q"}]
		}
	`, "noop.cue")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name and an op")
}

func TestCompileNoScenarioStruct(t *testing.T) {
	_, err := CompileString(`other: 1`, "other.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario struct")
}

func TestCompileSyntaxErrorHasPosition(t *testing.T) {
	_, err := CompileString("scenario: {", "broken.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "args", Message: "bad"}
	assert.Equal(t, "args: bad", err.Error())
}
