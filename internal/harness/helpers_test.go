package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/list"
)

// studioDevices is the catalog used by the testdata scenarios:
//
//	0 synth/freq   out f Hz     5 ctl/pad    out i (len 2)
//	1 synth/gain   in  f dB     6 ctl/fader  in  f dB
//	2 synth/cutoff in  f Hz     7 fx/mix     in  f
//	3 synth/wave   out i (len 4) 8 fx/rate   in  d Hz
//	4 ctl/knob     out i
func studioDevices() []ir.DeviceSpec {
	return []ir.DeviceSpec{
		{Name: "synth", Signals: []ir.SignalSpec{
			{Name: "freq", Direction: "out", Unit: "Hz"},
			{Name: "gain", Direction: "in", Unit: "dB"},
			{Name: "cutoff", Direction: "in", Unit: "Hz"},
			{Name: "wave", Direction: "out", Type: "i", Length: 4},
		}},
		{Name: "ctl", Signals: []ir.SignalSpec{
			{Name: "knob", Direction: "out", Type: "i"},
			{Name: "pad", Direction: "out", Type: "i", Length: 2},
			{Name: "fader", Direction: "in", Unit: "dB"},
		}},
		{Name: "fx", Signals: []ir.SignalSpec{
			{Name: "mix", Direction: "in"},
			{Name: "rate", Direction: "in", Type: "d", Unit: "Hz"},
		}},
	}
}

func studioScenario(name string, queries ...ir.QueryDef) *ir.Scenario {
	return &ir.Scenario{
		Name:        name,
		Description: "test scenario " + name,
		Devices:     studioDevices(),
		Queries:     queries,
	}
}

func newTestCatalog(t *testing.T) (*list.Store[ir.Signal], *Catalog) {
	t.Helper()
	items := list.NewStore[ir.Signal]()
	cat, err := NewCatalog(items, studioDevices())
	require.NoError(t, err)
	return items, cat
}

func intPtr(n int) *int {
	return &n
}
