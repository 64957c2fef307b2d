package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/ir"
)

func TestWriteCatalog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteCatalog(ctx, testCatalog()))

	rows, err := s.ReadSignals(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 5, "signals shared between lists are stored once")
	assert.Equal(t, "ctl", rows[0].Device)
	assert.Equal(t, "knob", rows[0].Name)
	assert.Equal(t, "out", rows[0].Direction)
	assert.Equal(t, "i", rows[0].Type)
	assert.Equal(t, int64(3), rows[0].Index)

	all, err := s.ReadList(ctx, "signals")
	require.NoError(t, err)
	assert.Equal(t, []string{"synth/freq", "synth/gain", "synth/env", "ctl/knob", "ctl/pad"}, all)
}

func TestWriteCatalog_Replaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteCatalog(ctx, testCatalog()))

	dev := &ir.Device{Name: "solo"}
	require.NoError(t, s.WriteCatalog(ctx, []CatalogList{{
		Name:    "signals",
		Signals: []*ir.Signal{{Device: dev, Name: "x", Direction: ir.DirectionIn, Type: 'i'}},
	}}))

	rows, err := s.ReadSignals(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	synth, err := s.ReadList(ctx, "synth")
	require.NoError(t, err)
	assert.Empty(t, synth)
	assert.NotNil(t, synth)
}

func TestWriteCatalog_RejectsBadDirection(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteCatalog(ctx, testCatalog()))

	dev := &ir.Device{Name: "bad"}
	err := s.WriteCatalog(ctx, []CatalogList{{
		Name:    "signals",
		Signals: []*ir.Signal{{Device: dev, Name: "x", Direction: "sideways", Type: 'i'}},
	}})
	require.Error(t, err)

	rows, err := s.ReadSignals(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 5, "failed write rolls back")
}

func TestWriteScenarioAndResults(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	doc := ir.Object{"name": ir.String("demo")}
	hash, err := ir.ScenarioHash(doc)
	require.NoError(t, err)
	require.NoError(t, s.WriteScenario(ctx, hash, "demo", doc))
	require.NoError(t, s.WriteScenario(ctx, hash, "demo", doc), "rewrite is a no-op")

	n, err := s.CountScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recs := []ResultRecord{
		{RunID: "run-1", ScenarioHash: hash, Seq: 2, QueryName: "b", Fingerprint: "fp-b"},
		{RunID: "run-1", ScenarioHash: hash, Seq: 1, QueryName: "a", Fingerprint: "fp-a", Items: []string{"synth/freq", "ctl/pad"}},
		{RunID: "run-2", ScenarioHash: hash, Seq: 1, QueryName: "a", Fingerprint: "fp-a"},
	}
	for _, r := range recs {
		require.NoError(t, s.WriteResult(ctx, r))
	}

	got, err := s.ReadResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].QueryName)
	assert.Equal(t, []string{"synth/freq", "ctl/pad"}, got[0].Items)
	assert.Equal(t, []string{}, got[1].Items)

	err = s.WriteResult(ctx, recs[0])
	assert.Error(t, err, "duplicate (run, seq)")

	err = s.WriteResult(ctx, ResultRecord{RunID: "run-3", ScenarioHash: "unknown", Seq: 1})
	assert.Error(t, err, "scenario must exist")
}
