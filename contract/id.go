package contract

import (
	"encoding/json"
	"strconv"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// ID is the identity of a contract. It is the 8 byte big endian encoded
// value of the contract ID sequence.
type ID []byte

var idSeq = orm.NewSequence("contract", orm.SeqID)

// NewID returns the ID with given sequence value.
func NewID(n int64) ID {
	return ID(orm.EncodeSequence(n))
}

// ParseID reads the decimal representation of an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "contract id %q", s)
	}
	return NewID(n), nil
}

// Seq returns the sequence value of the ID.
func (id ID) Seq() int64 {
	return orm.DecodeSequence(id)
}

func (id ID) String() string {
	if len(id) == 0 {
		return "(nil)"
	}
	return strconv.FormatInt(id.Seq(), 10)
}

// Validate returns an error if the ID cannot come from the ID sequence.
func (id ID) Validate() error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "contract id")
	}
	if len(id) != 8 || id.Seq() <= 0 {
		return errors.Wrapf(errors.ErrInput, "contract id %X", []byte(id))
	}
	return nil
}

// MarshalJSON writes the ID as a decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	if len(id) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts the decimal string representation.
func (id *ID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "contract id must be a string")
	}
	if s == "" {
		*id = nil
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
