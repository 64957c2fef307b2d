package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/siglist/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testCatalog returns a two-device catalog: a global "signals" list with
// every signal in declaration order plus one list per device.
func testCatalog() []CatalogList {
	synth := &ir.Device{Name: "synth"}
	ctl := &ir.Device{Name: "ctl"}
	sigs := []*ir.Signal{
		{Device: synth, Name: "freq", Direction: ir.DirectionIn, Length: 1, Type: 'f', Unit: "Hz", Index: 0},
		{Device: synth, Name: "gain", Direction: ir.DirectionIn, Length: 1, Type: 'f', Index: 1},
		{Device: synth, Name: "env", Direction: ir.DirectionOut, Length: 4, Type: 'd', Index: 2},
		{Device: ctl, Name: "knob", Direction: ir.DirectionOut, Length: 1, Type: 'i', Index: 3},
		{Device: ctl, Name: "pad", Direction: ir.DirectionOut, Length: 2, Type: 'i', Index: 4},
	}
	return []CatalogList{
		{Name: "signals", Signals: sigs},
		{Name: "synth", Signals: sigs[:3]},
		{Name: "ctl", Signals: sigs[3:]},
	}
}
