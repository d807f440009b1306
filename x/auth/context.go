package auth

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x"
)

type contextKey int // local to the auth module

const (
	contextKeyParties contextKey = iota
)

// withParties is a private method, as only this module
// can add a party
func withParties(ctx ledger.Context, parties []ledger.Condition) ledger.Context {
	return context.WithValue(ctx, contextKeyParties, parties)
}

// GetParties returns the conditions of the parties the current transaction
// was submitted by. May be empty.
func GetParties(ctx ledger.Context) []ledger.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyParties).([]ledger.Condition)
	return val
}

// Authenticate implements x.Authenticator, reading the parties the
// Decorator placed in the context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the party conditions that authorized this tx.
func (Authenticate) GetConditions(ctx ledger.Context) []ledger.Condition {
	return GetParties(ctx)
}

// HasAddress returns true iff this address is one of the submitting parties.
func (Authenticate) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, p := range GetParties(ctx) {
		if addr.Equals(p.Address()) {
			return true
		}
	}
	return false
}
