package asset

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
)

// Controller moves amounts in and out of asset positions. Every change
// archives the current position and creates a new one, so the caller's
// authority must include the issuer and the owner.
type Controller struct {
	assets    contract.Template
	transfers contract.Template
}

// NewController returns a controller over the asset and transfer
// templates.
func NewController() Controller {
	return Controller{
		assets:    NewAssetTemplate(),
		transfers: NewTransferTemplate(),
	}
}

// Position returns the active asset at (type, owner). A nil ID is returned
// when the owner holds no position.
func (c Controller) Position(db ledger.ReadOnlyKVStore, t AssetType, owner ledger.Address) (contract.ID, *Asset, error) {
	var a Asset
	id, err := c.assets.LookupByKey(db, HoldingKey(t, owner), &a)
	if err != nil || id == nil {
		return nil, nil, err
	}
	return id, &a, nil
}

// Withdraw takes an amount out of the owner's position. The position is
// archived and, if anything remains, replaced by a position holding the
// remainder. The position as it was before the withdrawal is returned.
func (c Controller) Withdraw(ctx ledger.Context, db ledger.KVStore, auth contract.Authority, t AssetType, owner ledger.Address, amt amount.Amount) (*Asset, error) {
	id, current, err := c.Position(db, t, owner)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.Wrapf(ErrInsufficientFunds, "%s holds no %s", owner, t.Symbol)
	}
	if !current.Amount.IsGTE(amt) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "balance %s, requested %s", current.Amount, amt)
	}
	remainder, err := current.Amount.Subtract(amt)
	if err != nil {
		return nil, err
	}
	if err := c.assets.Archive(ctx, db, auth, id); err != nil {
		return nil, errors.Wrap(err, "archive position")
	}
	if remainder.IsPositive() {
		residual := Asset{Type: t, Owner: owner, Amount: remainder}
		if _, err := c.assets.Create(ctx, db, auth, &residual); err != nil {
			return nil, errors.Wrap(err, "create residual position")
		}
	}
	return current, nil
}

// Deposit adds an amount to the owner's position, creating the position if
// there is none. The new position ID is returned, or nil if the resulting
// position would be empty.
func (c Controller) Deposit(ctx ledger.Context, db ledger.KVStore, auth contract.Authority, t AssetType, owner ledger.Address, amt amount.Amount) (contract.ID, error) {
	id, current, err := c.Position(db, t, owner)
	if err != nil {
		return nil, err
	}
	total := amt
	if current != nil {
		if total, err = current.Amount.Add(amt); err != nil {
			return nil, err
		}
		if err := c.assets.Archive(ctx, db, auth, id); err != nil {
			return nil, errors.Wrap(err, "archive position")
		}
	}
	if total.IsZero() {
		return nil, nil
	}
	next := Asset{Type: t, Owner: owner, Amount: total}
	return c.assets.Create(ctx, db, auth, &next)
}

// Transfer withdraws an amount from the owner's position and creates a
// transfer of it to the recipient.
func (c Controller) Transfer(ctx ledger.Context, db ledger.KVStore, auth contract.Authority, t AssetType, owner, recipient ledger.Address, amt amount.Amount) (contract.ID, error) {
	if err := ValidateTransferAmount(t, amt); err != nil {
		return nil, err
	}
	if amt.IsZero() {
		conf, err := LoadConfiguration(db)
		if err != nil {
			return nil, err
		}
		if !conf.AllowsZeroTransfer() {
			return nil, errors.Wrap(errors.ErrAmount, "zero amount transfers are not allowed")
		}
	}
	if _, err := c.Withdraw(ctx, db, auth, t, owner, amt); err != nil {
		return nil, err
	}
	// The snapshot only holds the transferred amount. The recipient observes
	// the transfer and must not learn what the owner kept.
	transfer := AssetTransfer{
		Asset:     Asset{Type: t, Owner: owner, Amount: amt},
		Sender:    owner,
		Recipient: recipient,
		Amount:    amt,
	}
	return c.transfers.Create(ctx, db, auth, &transfer)
}

// LoadTransfer returns an active transfer.
func (c Controller) LoadTransfer(db ledger.ReadOnlyKVStore, id contract.ID) (*AssetTransfer, error) {
	var t AssetTransfer
	if err := c.transfers.Fetch(db, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
