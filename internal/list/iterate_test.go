package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/argcodec"
	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/queryir"
)

func TestCopy_Independent(t *testing.T) {
	f := newFixture(t, 10)
	h := f.store.Union(f.even(), f.below(5))
	f.store.Next(h)
	f.store.Next(h)
	require.Equal(t, f.items[2], f.store.Item(h))

	c := f.store.Copy(h)
	require.NotEqual(t, h, c)
	assert.Equal(t, f.store.Item(h), f.store.Item(c), "copy keeps the cursor")
	assert.Equal(t, f.store.Length(h), f.store.Length(c))

	assert.Equal(t, []int{2, 3, 4, 6, 8}, f.drain(c))
	assert.Equal(t, f.items[2], f.store.Item(h), "draining the copy leaves h alone")
	assert.Equal(t, 5, f.store.Length(h))

	f.store.Free(h)
	f.requireNoQueries()
}

func TestCopy_Static(t *testing.T) {
	f := newFixture(t, 3)
	h := f.store.Handle(f.head())
	assert.Equal(t, h, f.store.Copy(h))
	assert.True(t, f.store.Copy(Handle{}).IsNone())
}

func TestLength(t *testing.T) {
	f := newFixture(t, 10)

	assert.Equal(t, 10, f.store.Length(f.store.Handle(f.head())))
	assert.Equal(t, 3, f.store.Length(f.store.Handle(f.items[7])))
	assert.Equal(t, 0, f.store.Length(Handle{}))

	h := f.even()
	assert.Equal(t, 5, f.store.Length(h))
	assert.Equal(t, 5, f.store.Length(h), "length does not consume")
	f.store.Free(h)
	f.requireNoQueries()
}

func TestGetIndex(t *testing.T) {
	f := newFixture(t, 10)
	h := f.even()
	f.store.Next(h)

	assert.Equal(t, f.items[0], f.store.GetIndex(h, 0))
	assert.Equal(t, f.items[2], f.store.GetIndex(h, 1))
	assert.Equal(t, f.items[6], f.store.GetIndex(h, 3))
	assert.Equal(t, f.items[8], f.store.GetIndex(h, 4))
	assert.True(t, f.store.GetIndex(h, 5).IsNone())
	assert.True(t, f.store.GetIndex(h, 50).IsNone())
	assert.True(t, f.store.GetIndex(h, -1).IsNone())

	assert.Equal(t, f.items[2], f.store.Item(h), "cursor unchanged")
	assert.Equal(t, 1, f.store.Stats().Queries)
	f.store.Free(h)
	f.requireNoQueries()
}

func TestGetIndex_ZeroIsSourceHead(t *testing.T) {
	f := newFixture(t, 10)
	h := f.query(indexMod, "ii", 2, 1)

	assert.Equal(t, f.items[1], f.store.Item(h))
	assert.Equal(t, f.items[0], f.store.GetIndex(h, 0), "index 0 is the source head even when it does not match")
	assert.Equal(t, f.items[3], f.store.GetIndex(h, 1), "counting starts at the first match, items[1]")
	assert.Equal(t, f.items[5], f.store.GetIndex(h, 2))
	assert.True(t, f.store.GetIndex(h, f.store.Length(h)).IsNone())
	f.store.Free(h)
	f.requireNoQueries()
}

func TestGetIndex_Static(t *testing.T) {
	f := newFixture(t, 4)
	h := f.store.Handle(f.head())
	for i := range 4 {
		assert.Equal(t, f.items[i], f.store.GetIndex(h, i))
	}
	assert.True(t, f.store.GetIndex(h, 4).IsNone())
}

func TestAll_BreakFrees(t *testing.T) {
	f := newFixture(t, 10)
	h := f.store.Intersection(f.even(), f.below(9))

	n := 0
	for range f.store.All(h) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	f.requireNoQueries()
}

func TestCollect_NonDestructive(t *testing.T) {
	f := newFixture(t, 10)
	h := f.below(3)

	assert.Equal(t, []Item{f.items[0], f.items[1], f.items[2]}, f.store.Collect(h))
	assert.Equal(t, []Item{f.items[0], f.items[1], f.items[2]}, f.store.Collect(h))
	f.store.Free(h)
	f.requireNoQueries()
	assert.Empty(t, f.store.Collect(Handle{}))
}

func TestDescribe(t *testing.T) {
	f := newFixture(t, 10)
	h := f.store.Union(f.even(), f.store.Handle(f.items[4]))

	q, err := f.store.Describe(h)
	require.NoError(t, err)

	c, ok := q.(queryir.Composite)
	require.True(t, ok)
	assert.Equal(t, queryir.OpUnion, c.Op)
	assert.Same(t, f.store.Value(f.head()), c.Source.Origin.Target)

	leaf := c.Left.(queryir.Leaf)
	assert.Equal(t, "index_mod", leaf.Predicate)
	assert.Equal(t, "ii", leaf.Tags)
	assert.Equal(t, []ir.Value{ir.Int32(2), ir.Int32(0)}, leaf.Args)

	static := c.Right.(queryir.Static)
	assert.Same(t, f.store.Value(f.items[4]), static.Source.Origin.Target)

	assert.True(t, queryir.Validate(q).Valid)
	assert.Equal(t, "union(index_mod(ii:2,0), list)", queryir.Format(q))

	f.store.Free(h)
	_, err = f.store.Describe(h)
	assert.True(t, IsInvalidHandle(err))
	_, err = f.store.Describe(Handle{})
	assert.True(t, IsInvalidHandle(err))
}

func TestDescribe_AnonymousAndStatic(t *testing.T) {
	f := newFixture(t, 3)
	h, err := f.store.NewQuery(f.head(), PredicateFunc[sig](func(_ *argcodec.Args, s *sig) bool { return true }), "")
	require.NoError(t, err)

	q, err := f.store.Describe(h)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", q.(queryir.Leaf).Predicate)
	f.store.Free(h)

	q, err = f.store.Describe(f.store.Handle(f.head()))
	require.NoError(t, err)
	assert.IsType(t, queryir.Static{}, q)
}
