package list

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/argcodec"
)

type sig struct {
	index int
	name  string
}

var (
	indexMod = Named("index_mod", PredicateFunc[sig](func(a *argcodec.Args, s *sig) bool {
		mod, rem := a.Int32(), a.Int32()
		return int32(s.index)%mod == rem
	}))
	indexLT = Named("index_lt", PredicateFunc[sig](func(a *argcodec.Args, s *sig) bool {
		return int64(s.index) < a.Int64()
	}))
	never = PredicateFunc[sig](func(*argcodec.Args, *sig) bool { return false })
)

// fixture is a store holding one list whose items are indexed 0..n-1 in
// list order.
type fixture struct {
	t     *testing.T
	store *Store[sig]
	list  List
	items []Item
	log   *bytes.Buffer
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	log := &bytes.Buffer{}
	f := &fixture{
		t:     t,
		store: NewStore[sig](WithLogger(slog.New(slog.NewTextHandler(log, &slog.HandlerOptions{Level: slog.LevelDebug})))),
		items: make([]Item, n),
		log:   log,
	}
	// Add prepends, so insert in reverse to get index order.
	for i := n - 1; i >= 0; i-- {
		it := f.store.Add(&f.list)
		v := f.store.Value(it)
		v.index = i
		f.items[i] = it
	}
	return f
}

func (f *fixture) head() Item {
	return f.list.First()
}

func (f *fixture) query(pred Predicate[sig], tags string, args ...any) Handle {
	f.t.Helper()
	h, err := f.store.NewQuery(f.head(), pred, tags, args...)
	require.NoError(f.t, err)
	return h
}

func (f *fixture) even() Handle { return f.query(indexMod, "ii", 2, 0) }

func (f *fixture) below(n int64) Handle { return f.query(indexLT, "h", n) }

// drain consumes h and returns the indexes it yielded.
func (f *fixture) drain(h Handle) []int {
	out := []int{}
	for _, v := range f.store.Values(h) {
		out = append(out, v.index)
	}
	return out
}

func (f *fixture) requireNoQueries() {
	f.t.Helper()
	require.Zero(f.t, f.store.Stats().Queries, "leaked query headers")
}
