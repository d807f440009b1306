package contract

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// note is a minimal record used across the contract tests.
type note struct {
	Author   ledger.Address
	Witness  ledger.Address
	Reader   ledger.Address
	Title    string
	Quantity int64
}

var _ Record = (*note)(nil)

func (n *note) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(n) }
func (n *note) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, n) }

func (n *note) Copy() orm.CloneableData {
	cpy := *n
	return &cpy
}

func (n *note) Validate() error {
	if err := n.Author.Validate(); err != nil {
		return errors.Wrap(err, "author")
	}
	if n.Quantity < 0 {
		return errors.Wrap(errors.ErrAmount, "negative quantity")
	}
	return nil
}

func (n *note) Signatories() []ledger.Address {
	if n.Witness == nil {
		return []ledger.Address{n.Author}
	}
	return []ledger.Address{n.Author, n.Witness}
}

func (n *note) Observers() []ledger.Address {
	if n.Reader == nil {
		return nil
	}
	return []ledger.Address{n.Reader}
}

func (n *note) ContractKey() []byte {
	if n.Title == "" {
		return nil
	}
	return []byte(n.Title)
}

var notes = NewTemplate("note", &note{},
	orm.WithIndex("reader", func(obj orm.Object) ([]byte, error) {
		return obj.Value().(*note).Reader, nil
	}, false))

// memo is a second record type sharing the ID sequence with note.
type memo struct {
	Author ledger.Address
	Title  string
}

var _ Record = (*memo)(nil)

func (m *memo) Marshal() ([]byte, error)      { return cdc.MarshalBinaryBare(m) }
func (m *memo) Unmarshal(raw []byte) error    { return cdc.UnmarshalBinaryBare(raw, m) }
func (m *memo) Validate() error               { return m.Author.Validate() }
func (m *memo) Signatories() []ledger.Address { return []ledger.Address{m.Author} }
func (m *memo) Observers() []ledger.Address   { return nil }
func (m *memo) ContractKey() []byte           { return []byte(m.Title) }

func (m *memo) Copy() orm.CloneableData {
	cpy := *m
	return &cpy
}

var memos = NewTemplate("memo", &memo{})
