package contract

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Authority is the set of parties a choice is executed with: the
// submitting parties and the signatories of the exercised contract.
type Authority []ledger.Address

// NewAuthority returns the union of given party lists.
func NewAuthority(parties ...[]ledger.Address) Authority {
	var a Authority
	for _, p := range parties {
		a = a.With(p...)
	}
	return a
}

// With returns an authority extended with given parties. Parties already
// present are not repeated.
func (a Authority) With(parties ...ledger.Address) Authority {
	res := append(Authority(nil), a...)
	for _, p := range parties {
		if !res.Has(p) {
			res = append(res, p)
		}
	}
	return res
}

// Has returns true if given party is part of the authority.
func (a Authority) Has(party ledger.Address) bool {
	return containsAddress(a, party)
}

// Require returns ErrUnauthorized if any of the required parties is missing.
func (a Authority) Require(required []ledger.Address) error {
	for _, r := range required {
		if !a.Has(r) {
			return errors.Wrapf(errors.ErrUnauthorized, "missing authorization of %s", r)
		}
	}
	return nil
}
