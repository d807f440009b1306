package ledgertest

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of store.MemStore when you want
// the exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) ledger.CommitKVStore {
	t.Helper()
	return iavl.NewCommitStore(t.TempDir(), "db")
}
