package x

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/auth for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(ledger.Context, ledger.Address) bool
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx ledger.Context, auth Authenticator) []ledger.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]ledger.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// RequireAllAddresses returns ErrUnauthorized naming the first party that is
// required but did not authorize the current transaction.
func RequireAllAddresses(ctx ledger.Context, auth Authenticator, required ...ledger.Address) error {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return errors.Wrapf(errors.ErrUnauthorized, "party %s did not authorize", r)
		}
	}
	return nil
}
