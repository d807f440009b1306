package orm

import (
	"github.com/iov-one/ledger/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes the orm internal bookkeeping types. Extensions keep their
// own codecs for their models.
var cdc = amino.NewCodec()

// MultiRef contains a list of references to primary keys, sorted
// bytewise. Non unique indexes store one under every indexed value.
type MultiRef struct {
	Refs [][]byte `json:"refs"`
}

// Marshal serializes the reference list.
func (m *MultiRef) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// Unmarshal loads a reference list.
func (m *MultiRef) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, m); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// GetRefs returns the references, nil safe.
func (m *MultiRef) GetRefs() [][]byte {
	if m == nil {
		return nil
	}
	return m.Refs
}

// Size returns the number of references.
func (m *MultiRef) Size() int {
	return len(m.GetRefs())
}
