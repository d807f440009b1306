package account

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/asset"
)

const optKey = "account"

// GenesisAccount is used to parse the json from genesis file. Balance is
// optional, a non zero balance is airdropped into the account.
type GenesisAccount struct {
	AssetHoldingAccount
	Balance amount.Amount `json:"balance"`
}

// Initializer fulfils the ledger.Initializer interface to load accounts
// from the genesis file.
type Initializer struct {
	ctrl asset.Controller
}

var _ ledger.Initializer = Initializer{}

func NewInitializer(ctrl asset.Controller) Initializer {
	return Initializer{ctrl: ctrl}
}

// FromGenesis will create the accounts listed in genesis. Genesis is
// trusted, every account is created on behalf of its own signatories.
func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return err
	}
	ctx := context.Background()
	bucket := NewAccountTemplate()
	for n, ga := range accounts {
		acct := ga.AssetHoldingAccount
		auth := contract.NewAuthority(acct.Signatories())
		if _, err := bucket.Create(ctx, db, auth, &acct); err != nil {
			return errors.Wrapf(err, "genesis account %d", n)
		}
		if ga.Balance.IsZero() {
			continue
		}
		if err := acct.Type.CheckAmount(ga.Balance); err != nil {
			return errors.Wrapf(err, "genesis account %d balance", n)
		}
		if _, err := i.ctrl.Deposit(ctx, db, auth, acct.Type, acct.Owner, ga.Balance); err != nil {
			return errors.Wrapf(err, "genesis account %d balance", n)
		}
	}
	return nil
}
