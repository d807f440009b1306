package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const testChainID = "test-chain"

var (
	_, issuer = ledgertest.Party("issuer")
	_, alice  = ledgertest.Party("alice")
	_, bob    = ledgertest.Party("bob")
	_, carol  = ledgertest.Party("carol")

	usd = asset.AssetType{Issuer: issuer, Symbol: "USD", Fungible: true}
)

const testGenesis = `
	{
		"conf": {
			"asset": {"owner": "party:issuer"}
		},
		"account": [
			{
				"asset_type": {"issuer": "party:issuer", "symbol": "USD", "fungible": true},
				"owner": "party:issuer",
				"balance": "1000"
			}
		]
	}
`

func newTestLedger(t *testing.T, store ledger.CommitKVStore) *Ledger {
	t.Helper()
	l, err := NewApplication("assetd", store, nil)
	require.NoError(t, err)
	return l
}

func submit(t *testing.T, l *Ledger, msg ledger.Msg, parties ...string) contract.ID {
	t.Helper()
	res, err := l.Submit(context.Background(), NewTx(msg, parties...))
	require.NoError(t, err)
	return res.Data
}

func openAccount(t *testing.T, l *Ledger, owner string, ownerAddr ledger.Address) contract.ID {
	t.Helper()
	msg := &account.CreateAccountMsg{
		Account: account.AssetHoldingAccount{Type: usd, Owner: ownerAddr, Airdroppable: true},
	}
	return submit(t, l, msg, "issuer", owner)
}

func positions(t *testing.T, l *Ledger, owner ledger.Address) []*asset.Asset {
	t.Helper()
	models, err := l.Query("/assets/owner", owner)
	require.NoError(t, err)
	res := make([]*asset.Asset, len(models))
	for i, m := range models {
		var a asset.Asset
		require.NoError(t, a.Unmarshal(m.Value))
		res[i] = &a
	}
	return res
}

func balance(t *testing.T, l *Ledger, owner ledger.Address) amount.Amount {
	t.Helper()
	total := amount.Zero()
	for _, p := range positions(t, l, owner) {
		var err error
		total, err = total.Add(p.Amount)
		require.NoError(t, err)
	}
	return total
}

func TestLedgerSubmit(t *testing.T) {
	l := newTestLedger(t, ledgertest.CommitKVStore(t))
	require.NoError(t, l.InitChain(testChainID, []byte(testGenesis)))
	require.Equal(t, testChainID, l.ChainID())
	require.Equal(t, int64(1), l.Height())

	aliceAcct := openAccount(t, l, "alice", alice)
	openAccount(t, l, "bob", bob)
	require.Equal(t, int64(3), l.Height())

	submit(t, l, &account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(15, 0)}, "issuer")
	tr := submit(t, l, &account.CreateTransferMsg{
		AccountID: aliceAcct,
		Recipient: bob,
		Amount:    amount.New(5, 0),
	}, "alice")

	// the pending transfer is visible to both sides
	models, err := l.Query("/transfers/recipient", bob)
	require.NoError(t, err)
	require.Len(t, models, 1)

	submit(t, l, &asset.AcceptTransferMsg{TransferID: tr}, "bob")
	require.Equal(t, amount.New(10, 0), balance(t, l, alice))
	require.Equal(t, amount.New(5, 0), balance(t, l, bob))
	require.Equal(t, amount.New(1000, 0), balance(t, l, issuer))

	models, err = l.Query("/transfers/recipient", bob)
	require.NoError(t, err)
	require.Len(t, models, 0)

	models, err = l.Query("/archive", tr)
	require.NoError(t, err)
	require.Len(t, models, 1)
}

func TestLedgerFailedSubmissionChangesNothing(t *testing.T) {
	l := newTestLedger(t, ledgertest.CommitKVStore(t))
	require.NoError(t, l.InitChain(testChainID, []byte(testGenesis)))

	aliceAcct := openAccount(t, l, "alice", alice)
	submit(t, l, &account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(10, 0)}, "issuer")
	height := l.Height()

	cases := map[string]struct {
		tx      ledger.Tx
		wantErr *errors.Error
	}{
		"insufficient funds": {
			tx: NewTx(&account.CreateTransferMsg{
				AccountID: aliceAcct,
				Recipient: bob,
				Amount:    amount.New(20, 0),
			}, "alice"),
			wantErr: asset.ErrInsufficientFunds,
		},
		"not the owner": {
			tx: NewTx(&account.CreateTransferMsg{
				AccountID: aliceAcct,
				Recipient: bob,
				Amount:    amount.New(1, 0),
			}, "bob"),
			wantErr: errors.ErrUnauthorized,
		},
		"unknown transfer": {
			tx:      NewTx(&asset.AcceptTransferMsg{TransferID: ledgertest.SequenceID(999)}, "bob"),
			wantErr: errors.ErrNotFound,
		},
		"no parties": {
			tx:      NewTx(&account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(1, 0)}),
			wantErr: errors.ErrUnauthorized,
		},
		"no message": {
			tx:      &Tx{Parties: []string{"alice"}},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := l.Check(context.Background(), tc.tx)
			require.True(t, tc.wantErr.Is(err), "check: %+v", err)

			_, err = l.Submit(context.Background(), tc.tx)
			require.True(t, tc.wantErr.Is(err), "submit: %+v", err)

			require.Equal(t, height, l.Height())
			require.Equal(t, amount.New(10, 0), balance(t, l, alice))
			require.Equal(t, amount.Zero(), balance(t, l, bob))
		})
	}
}

func TestLedgerConcurrentSubmissions(t *testing.T) {
	l := newTestLedger(t, ledgertest.CommitKVStore(t))
	require.NoError(t, l.InitChain(testChainID, nil))

	const workers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := &account.CreateAccountMsg{
				Account: account.AssetHoldingAccount{Type: usd, Owner: carol},
			}
			_, err := l.Submit(context.Background(), NewTx(msg, "issuer", "carol"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.ErrDuplicate.Is(err):
				dupes++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, workers-1, dupes)

	models, err := l.Query("/accounts/owner", carol)
	require.NoError(t, err)
	require.Len(t, models, 1)
}

func TestLedgerReload(t *testing.T) {
	db := dbm.NewMemDB()

	l := newTestLedger(t, iavl.NewCommitStoreFromDB(db))
	require.NoError(t, l.InitChain(testChainID, []byte(testGenesis)))
	aliceAcct := openAccount(t, l, "alice", alice)
	submit(t, l, &account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(7, 0)}, "issuer")

	reloaded := newTestLedger(t, iavl.NewCommitStoreFromDB(db))
	require.Equal(t, testChainID, reloaded.ChainID())
	require.Equal(t, l.Height(), reloaded.Height())
	require.Equal(t, amount.New(7, 0), balance(t, reloaded, alice))

	err := reloaded.InitChain(testChainID, nil)
	require.True(t, errors.ErrState.Is(err))

	// the reloaded ledger continues with the next block
	submit(t, reloaded, &account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(1, 0)}, "issuer")
	require.Equal(t, l.Height()+1, reloaded.Height())
	require.Equal(t, amount.New(8, 0), balance(t, reloaded, alice))
}

func TestLedgerInitChain(t *testing.T) {
	cases := map[string]struct {
		chainID  string
		appState string
		wantErr  *errors.Error
	}{
		"empty state": {
			chainID: testChainID,
		},
		"invalid chain id": {
			chainID: "bad",
			wantErr: errors.ErrInput,
		},
		"malformed state": {
			chainID:  testChainID,
			appState: `{"account": `,
			wantErr:  errors.ErrInput,
		},
		"unknown configuration": {
			chainID:  testChainID,
			appState: `{"conf": {"escrow": {}}}`,
			wantErr:  errors.ErrInput,
		},
		"duplicate genesis account": {
			chainID: testChainID,
			appState: `{"account": [
				{"asset_type": {"issuer": "party:issuer", "symbol": "USD", "fungible": true}, "owner": "party:bob"},
				{"asset_type": {"issuer": "party:issuer", "symbol": "USD", "fungible": true}, "owner": "party:bob"}
			]}`,
			wantErr: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newTestLedger(t, iavl.MemCommitStore())
			err := l.InitChain(tc.chainID, []byte(tc.appState))
			if tc.wantErr == nil {
				require.NoError(t, err)
				require.Equal(t, tc.chainID, l.ChainID())
				return
			}
			require.True(t, tc.wantErr.Is(err), "got %+v", err)
			require.Equal(t, "", l.ChainID())
			require.Equal(t, int64(0), l.Height())

			// a failed genesis leaves nothing behind
			models, err := l.Query("/accounts/owner", bob)
			require.NoError(t, err)
			require.Len(t, models, 0)
		})
	}
}

func TestLedgerRequiresGenesis(t *testing.T) {
	l := newTestLedger(t, iavl.MemCommitStore())
	msg := &account.CreateAccountMsg{
		Account: account.AssetHoldingAccount{Type: usd, Owner: alice},
	}
	_, err := l.Submit(context.Background(), NewTx(msg, "issuer", "alice"))
	require.True(t, errors.ErrState.Is(err))
	_, err = l.Check(context.Background(), NewTx(msg, "issuer", "alice"))
	require.True(t, errors.ErrState.Is(err))
}

func TestLedgerArchiveHeight(t *testing.T) {
	now := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	l := newTestLedger(t, iavl.MemCommitStore()).WithClock(func() time.Time { return now })
	require.NoError(t, l.InitChain(testChainID, nil))

	acct := openAccount(t, l, "alice", alice)
	inv := submit(t, l, &account.InviteMsg{AccountID: acct, Recipient: bob}, "issuer")
	submit(t, l, &account.RejectProposalMsg{ProposalID: inv}, "bob")

	models, err := l.Query("/archive", inv)
	require.NoError(t, err)
	require.Len(t, models, 1)

	var archived contract.ArchivedContract
	require.NoError(t, archived.Unmarshal(models[0].Value))
	require.Equal(t, l.Height(), archived.Height)
}

func TestLedgerUnknownQuery(t *testing.T) {
	l := newTestLedger(t, iavl.MemCommitStore())
	_, err := l.Query("/nothing", nil)
	require.True(t, errors.ErrNotFound.Is(err))
}

func TestLedgerQueryByKey(t *testing.T) {
	l := newTestLedger(t, ledgertest.CommitKVStore(t))
	require.NoError(t, l.InitChain(testChainID, []byte(testGenesis)))

	aliceAcct := openAccount(t, l, "alice", alice)
	submit(t, l, &account.AirdropMsg{AccountID: aliceAcct, Amount: amount.New(15, 0)}, "issuer")

	models, err := l.Query("/assets/key", asset.HoldingKey(usd, alice))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var held asset.Asset
	require.NoError(t, held.Unmarshal(models[0].Value))
	require.Equal(t, amount.New(15, 0), held.Amount)
	require.True(t, alice.Equals(held.Owner))

	models, err = l.Query("/accounts/key", asset.HoldingKey(usd, alice))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var acct account.AssetHoldingAccount
	require.NoError(t, acct.Unmarshal(models[0].Value))
	require.True(t, acct.Airdroppable)

	models, err = l.Query("/accounts/key", asset.HoldingKey(usd, carol))
	require.NoError(t, err)
	require.Empty(t, models)
}
