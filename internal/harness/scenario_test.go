package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/compiler"
	"github.com/roach88/siglist/internal/ir"
)

const minimalYAML = `
name: minimal
description: one device, one list
devices:
  - name: fx
    signals:
      - { name: mix, direction: in }
queries:
  - name: fx
    op: list
    source: fx
    expect: [fx/mix]
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Devices, 1)
	assert.Equal(t, "mix", s.Devices[0].Signals[0].Name)
	require.Len(t, s.Queries, 1)
	assert.Equal(t, []string{"fx/mix"}, s.Queries[0].Expect)
	assert.False(t, s.VerifySQL)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalYAML + "verify: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "verify")
}

func TestParseScenario_ValidationError(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: broken
devices:
  - name: fx
    signals:
      - { name: mix, direction: sideways }
queries:
  - { name: fx, op: list, source: fx }
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
	assert.Contains(t, err.Error(), "E106")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenarios_YAML(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios", "set_algebra.yaml"))
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "set_algebra", scenarios[0].Name)
	assert.True(t, scenarios[0].VerifySQL)
}

func TestLoadScenarios_CUEUnknownPredicate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
scenario: loud: {
	devices: fx: signals: mix: direction: "in"
	queries: [{name: "q", op: "query", source: "fx", predicate: "loudest"}]
}
`), 0o644))

	_, err := LoadScenarios(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario loud")
	assert.Contains(t, err.Error(), `unknown predicate "loudest"`)
}

func TestValidateScenario_FirstErrorWins(t *testing.T) {
	s := &ir.Scenario{}
	err := ValidateScenario(s, DefaultRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E101")
}

func TestScenarioObject_HashStable(t *testing.T) {
	a := loadTestScenario(t, "set_algebra.yaml")
	b := loadTestScenario(t, "set_algebra.yaml")

	docA, err := ScenarioObject(a)
	require.NoError(t, err)
	docB, err := ScenarioObject(b)
	require.NoError(t, err)

	hashA, err := ir.ScenarioHash(docA)
	require.NoError(t, err)
	hashB, err := ir.ScenarioHash(docB)
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)

	b.Queries[1].Args = []any{2, 1}
	docB, err = ScenarioObject(b)
	require.NoError(t, err)
	hashB, err = ir.ScenarioHash(docB)
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB)
}

func TestScenarioObject_Fields(t *testing.T) {
	s := studioScenario("fields", ir.QueryDef{
		Name: "evens", Op: ir.OpQuery, Source: AllSignals,
		Predicate: "index_mod", Args: []any{2, 0},
		Length: intPtr(5),
		Index:  []ir.IndexCheck{{At: 0, Want: "synth/freq"}},
	})

	doc, err := ScenarioObject(s)
	require.NoError(t, err)
	q := doc["queries"].(ir.Array)[0].(ir.Object)
	assert.Equal(t, ir.String("index_mod"), q["predicate"])
	assert.Equal(t, ir.Int64(5), q["length"])
	assert.NotContains(t, q, "left")
	assert.NotContains(t, q, "expect")
	assert.Equal(t, ir.Bool(false), doc["verify_sql"])
}

func TestScenarioErrors_CollectsAll(t *testing.T) {
	s := studioScenario("many",
		ir.QueryDef{Name: "a", Op: ir.OpQuery, Source: "drums", Predicate: "loudest"},
		ir.QueryDef{Name: "a", Op: ir.OpCopy, Left: "b"},
	)

	errs := ScenarioErrors(s, DefaultRegistry())
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Contains(t, codes, compiler.ErrUnknownSource)
	assert.Contains(t, codes, compiler.ErrDuplicateName)
	assert.Contains(t, codes, compiler.ErrUnresolvedRef)
	assert.Contains(t, codes, compiler.ErrUnknownPredicate)
}

func TestDecodeScenario_DoesNotValidate(t *testing.T) {
	s, err := DecodeScenario([]byte("name: \"\"\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Name)
}
