/*
Package contract implements the ledger records ("contracts") on top of orm
buckets.

A contract is an immutable record with an identity, a set of signatories
that must authorize its creation and its archival, and a set of observers
that can read it. Records are never updated in place. A choice archives the
records it consumes and creates new ones.

Every record type is stored by a Template. All templates share one ID
sequence, so a contract ID is unique across record types. A record that
declares a logical key is indexed by a unique index, which guarantees that
no two active records of the same type share a key. Archived records are
moved into the archive bucket and remain readable as history.
*/
package contract

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/orm"
)

// Record is implemented by all contract payloads.
type Record interface {
	orm.Model

	// Signatories returns the parties that must authorize both the
	// creation and the archival of this record.
	Signatories() []ledger.Address

	// Observers returns the parties that can read this record without
	// being signatories. May be empty.
	Observers() []ledger.Address

	// ContractKey returns the logical key of this record or nil if the
	// record type has no key.
	ContractKey() []byte
}

// CanRead returns true if given party is a signatory or an observer of the
// record.
func CanRead(r Record, party ledger.Address) bool {
	return containsAddress(r.Signatories(), party) || containsAddress(r.Observers(), party)
}

func containsAddress(addrs []ledger.Address, a ledger.Address) bool {
	for _, x := range addrs {
		if x.Equals(a) {
			return true
		}
	}
	return false
}
