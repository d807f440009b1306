package ledgertest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/iov-one/ledger"
)

var partyCounter uint64

// NewCondition returns the condition of a party with a unique, generated
// name.
func NewCondition() ledger.Condition {
	n := atomic.AddUint64(&partyCounter, 1)
	return ledger.PartyCondition(fmt.Sprintf("party-%d", n))
}

// Party returns the condition and the address of a named party.
func Party(name string) (ledger.Condition, ledger.Address) {
	c := ledger.PartyCondition(name)
	return c, c.Address()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// ledger.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) ledger.Address {
	t.Helper()

	addr, err := ledger.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
