package app

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/asset"
	"github.com/stretchr/testify/require"
)

func TestResultSet(t *testing.T) {
	models := []ledger.Model{
		{Key: []byte("asset:1"), Value: []byte("one")},
		{Key: []byte("asset:2"), Value: []byte("two")},
	}

	rawKeys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	rawValues, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(rawKeys))
	require.NoError(t, values.Unmarshal(rawValues))

	got, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	require.Equal(t, models, got)

	_, err = JoinResults(&keys, &ResultSet{})
	require.True(t, errors.ErrState.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	want := asset.Asset{Type: usd, Owner: alice}
	raw, err := want.Marshal()
	require.NoError(t, err)
	set, err := (&ResultSet{Results: [][]byte{raw}}).Marshal()
	require.NoError(t, err)

	var got asset.Asset
	require.NoError(t, UnmarshalOneResult(set, &got))
	require.Equal(t, want, got)

	// an empty set leaves the destination untouched
	empty, err := ResultsFromValues(nil).Marshal()
	require.NoError(t, err)
	var none asset.Asset
	require.NoError(t, UnmarshalOneResult(empty, &none))
	require.Equal(t, asset.Asset{}, none)
}
