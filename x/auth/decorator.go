/*
Package auth provides party assertion middleware. Parties are not
authenticated with signatures: whoever submits a transaction names the
parties it acts for, and the Decorator makes them available to the handlers
through the Authenticate authenticator.
*/
package auth

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Decorator copies the parties a transaction is submitted by into the
// context before calling down the stack.
type Decorator struct{}

var _ ledger.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

// Check loads the parties before calling down the stack
func (d Decorator) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	ctx, err := assertParties(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver loads the parties before calling down the stack
func (d Decorator) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	ctx, err := assertParties(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func assertParties(ctx ledger.Context, tx ledger.Tx) (ledger.Context, error) {
	ptx, ok := tx.(PartyTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "transaction %T does not name parties", tx)
	}
	conds, err := PartyConditions(ptx)
	if err != nil {
		return nil, err
	}
	ctx = withParties(ctx, conds)
	return ledger.WithLogInfo(ctx, "parties", ptx.GetParties()), nil
}
