package account

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/asset"
)

var (
	issuerCond, issuer = ledgertest.Party("issuer")
	aliceCond, alice   = ledgertest.Party("alice")
	bobCond, bob       = ledgertest.Party("bob")
	carolCond, carol   = ledgertest.Party("carol")

	usd = asset.AssetType{Issuer: issuer, Symbol: "USD", Fungible: true}
	art = asset.AssetType{Issuer: issuer, Symbol: "ART", Reference: "mona lisa"}
)

// env wires every choice of both extensions over one store. Each delivery
// runs in a cache wrap that is written only on success.
type env struct {
	t    testing.TB
	db   store.CacheableKVStore
	auth *ledgertest.CtxAuth
	ctrl asset.Controller

	accounts  contract.Template
	proposals contract.Template
	handlers  map[string]ledger.Handler
}

func newEnv(t testing.TB) *env {
	auth := &ledgertest.CtxAuth{Key: "parties"}
	ctrl := asset.NewController()
	e := &env{
		t:         t,
		db:        store.MemStore(),
		auth:      auth,
		ctrl:      ctrl,
		accounts:  NewAccountTemplate(),
		proposals: NewProposalTemplate(),
		handlers:  make(map[string]ledger.Handler),
	}
	RegisterRoutes(e, auth, ctrl)
	asset.RegisterRoutes(e, auth, ctrl, nil)
	return e
}

// Handle implements ledger.Registry.
func (e *env) Handle(m ledger.Msg, h ledger.Handler) {
	e.handlers[m.Path()] = h
}

// submit delivers the message on behalf of the parties and returns the ID
// the choice produced.
func (e *env) submit(msg ledger.Msg, parties ...ledger.Condition) (contract.ID, error) {
	e.t.Helper()
	h, ok := e.handlers[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := e.auth.SetConditions(context.Background(), parties...)
	tx := &ledgertest.Tx{Msg: msg}

	check := e.db.CacheWrap()
	_, checkErr := h.Check(ctx, check, tx)
	check.Discard()

	cache := e.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if checkErr != nil {
		e.t.Fatalf("check failed but deliver succeeded: %v", checkErr)
	}
	if err := cache.Write(); err != nil {
		e.t.Fatalf("cannot write: %s", err)
	}
	return contract.ID(res.Data), nil
}

func (e *env) mustSubmit(msg ledger.Msg, parties ...ledger.Condition) contract.ID {
	e.t.Helper()
	id, err := e.submit(msg, parties...)
	if err != nil {
		e.t.Fatalf("%s: %+v", msg.Path(), err)
	}
	return id
}

// openAccount creates an account signed by the issuer and the owner.
func (e *env) openAccount(typ asset.AssetType, owner ledger.Condition, airdroppable, resharable bool) contract.ID {
	e.t.Helper()
	msg := &CreateAccountMsg{Account: AssetHoldingAccount{
		Type:         typ,
		Owner:        owner.Address(),
		Airdroppable: airdroppable,
		Resharable:   resharable,
	}}
	return e.mustSubmit(msg, issuerCond, owner)
}

func (e *env) balance(typ asset.AssetType, owner ledger.Address) amount.Amount {
	e.t.Helper()
	id, a, err := e.ctrl.Position(e.db, typ, owner)
	if err != nil {
		e.t.Fatalf("cannot load position: %s", err)
	}
	if id == nil {
		return amount.Zero()
	}
	return a.Amount
}

// positions returns all active assets of an owner.
func (e *env) positions(owner ledger.Address) []*asset.Asset {
	e.t.Helper()
	var res []*asset.Asset
	if _, err := asset.NewAssetTemplate().ByIndex(e.db, "owner", owner, &res); err != nil {
		e.t.Fatalf("cannot list positions: %s", err)
	}
	return res
}

// pending returns all active transfers taken out of the owner's positions.
func (e *env) pending(owner ledger.Address) []*asset.AssetTransfer {
	e.t.Helper()
	var res []*asset.AssetTransfer
	if _, err := asset.NewTransferTemplate().ByIndex(e.db, "owner", owner, &res); err != nil {
		e.t.Fatalf("cannot list transfers: %s", err)
	}
	return res
}

// total sums what exists of an asset type, both held and in flight.
func (e *env) total(typ asset.AssetType, owners ...ledger.Address) amount.Amount {
	e.t.Helper()
	sum := amount.Zero()
	add := func(a amount.Amount) {
		var err error
		if sum, err = sum.Add(a); err != nil {
			e.t.Fatalf("overflow: %s", err)
		}
	}
	for _, o := range owners {
		for _, p := range e.positions(o) {
			if p.Type.Equals(typ) {
				add(p.Amount)
			}
		}
		for _, tr := range e.pending(o) {
			if tr.Asset.Type.Equals(typ) {
				add(tr.Amount)
			}
		}
	}
	return sum
}
