package handlers

import (
	"strings"
	"sync"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
)

const partyPrefix = "party:"

// directory maps party addresses back to the names the gateway has seen.
// Addresses are hashes of the names, so a name that never reached this
// process cannot be recovered.
type directory struct {
	mu    sync.RWMutex
	names map[string]string
}

// learn records the name and returns its address.
func (d *directory) learn(name string) ledger.Address {
	addr := ledger.PartyCondition(name).Address()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.names == nil {
		d.names = make(map[string]string)
	}
	d.names[addr.String()] = name
	return addr
}

func (d *directory) learnAll(names []string) {
	for _, n := range names {
		d.learn(n)
	}
}

// parse decodes an address the way ledger.ParseAddress does and learns the
// name of a "party:<name>" value.
func (d *directory) parse(enc string) (ledger.Address, error) {
	if name := strings.TrimPrefix(enc, partyPrefix); name != enc && name != "" {
		return d.learn(name), nil
	}
	addr, err := ledger.ParseAddress(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}

// named returns the known names of the parties of a record, keyed by the
// address as it is rendered in JSON.
func (d *directory) named(r contract.Record) map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out map[string]string
	for _, group := range [][]ledger.Address{r.Signatories(), r.Observers()} {
		for _, addr := range group {
			key := addr.String()
			name, ok := d.names[key]
			if !ok {
				continue
			}
			if out == nil {
				out = make(map[string]string)
			}
			out[key] = name
		}
	}
	return out
}
