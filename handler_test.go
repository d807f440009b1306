package ledger

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"asset": {"owner": "a"}, "bad": 7}`), &opts))

	var conf struct{ Owner string }
	require.NoError(t, opts.ReadOptions("asset", &conf))
	require.Equal(t, "a", conf.Owner)

	// missing keys are not an error
	var missing struct{ Owner string }
	require.NoError(t, opts.ReadOptions("nope", &missing))
	require.Equal(t, "", missing.Owner)

	require.Error(t, opts.ReadOptions("bad", &conf))
}

type initFunc func(Options, KVStore) error

func (f initFunc) FromGenesis(o Options, kv KVStore) error { return f(o, kv) }

func TestChainInitializers(t *testing.T) {
	var calls []string
	record := func(name string, err error) Initializer {
		return initFunc(func(Options, KVStore) error {
			calls = append(calls, name)
			return err
		})
	}

	require.NoError(t, ChainInitializers(record("a", nil), record("b", nil)).FromGenesis(nil, nil))
	require.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	err := ChainInitializers(record("a", errors.ErrInput), record("b", nil)).FromGenesis(nil, nil)
	require.True(t, errors.ErrInput.Is(err))
	require.Equal(t, []string{"a"}, calls)
}
