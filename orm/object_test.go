package orm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleObj(t *testing.T) {
	key := []byte("foo")
	val, err := NewMultiRef([]byte("bar"), []byte("baz"))
	require.NoError(t, err)

	obj := NewSimpleObj(key, val)
	require.Equal(t, key, obj.Key())
	require.EqualValues(t, val, obj.Value())
	require.NoError(t, obj.Validate())

	// clone gives an empty value of the same type, ready to be loaded into
	o2 := obj.Clone()
	require.Equal(t, key, o2.Key())
	require.IsType(t, &MultiRef{}, o2.Value())
	raw, err := val.Marshal()
	require.NoError(t, err)
	require.NoError(t, o2.Value().Unmarshal(raw))
	require.NoError(t, o2.Validate())

	// now modify original, should not affect clone
	require.NoError(t, val.Remove([]byte("bar")))
	require.NoError(t, val.Remove([]byte("baz")))

	require.Error(t, obj.Validate())
	require.NoError(t, o2.Validate())

	// empty-ness is no good
	v2, err := multiRefFromStrings("dings")
	require.NoError(t, err)
	nokey := NewSimpleObj([]byte{}, v2)
	require.Error(t, nokey.Validate())
	nokey.SetKey([]byte{1, 3})
	require.NoError(t, nokey.Validate())
}
