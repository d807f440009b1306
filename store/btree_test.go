package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	got, err := base.Get(k)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, base.Set(k, v))
	got, err = base.Get(k)
	require.NoError(t, err)
	require.Equal(t, v, got)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	has, err := cache.Has(k)
	require.NoError(t, err)
	require.True(t, has)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	got, err = base.Get(k2)
	require.NoError(t, err)
	require.Nil(t, got)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	got, err = base.Get(k2)
	require.NoError(t, err)
	require.Equal(t, v2, got)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	require.NoError(t, c2.Delete(k))
	c2.Discard()
	got, err = base.Get(k3)
	require.NoError(t, err)
	require.Nil(t, got)
	has, err = base.Has(k)
	require.NoError(t, err)
	require.True(t, has)
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all ascending": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("d"), Value: []byte("base-d")},
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("c"), Value: []byte("cache-c")},
			},
		},
		"reverse from start": {
			start:   []byte("c"),
			reverse: true,
			want: []Model{
				{Key: []byte("d"), Value: []byte("base-d")},
				{Key: []byte("c"), Value: []byte("cache-c")},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			got, err := ReadAll(it)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLogableStoreRecordsOps(t *testing.T) {
	kv, ops := LogableStore()
	require.NoError(t, kv.Set([]byte("k"), []byte("v")))
	require.NoError(t, kv.Delete([]byte("k")))
	require.Len(t, ops.ShowOps(), 2)
}
