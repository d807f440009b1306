package contract

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ArchivedContract is the history entry of an archived record.
type ArchivedContract struct {
	// Template is the name of the template the record was created by.
	Template string
	// Value is the serialized record.
	Value []byte
	// Height is the ledger height the record was archived at.
	Height int64
}

var _ orm.Model = (*ArchivedContract)(nil)

func (a *ArchivedContract) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *ArchivedContract) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *ArchivedContract) Validate() error {
	if a.Template == "" {
		return errors.Wrap(errors.ErrEmpty, "template")
	}
	if len(a.Value) == 0 {
		return errors.Wrap(errors.ErrEmpty, "value")
	}
	if a.Height < 0 {
		return errors.Wrap(errors.ErrInput, "negative height")
	}
	return nil
}

func (a *ArchivedContract) Copy() orm.CloneableData {
	return &ArchivedContract{
		Template: a.Template,
		Value:    append([]byte(nil), a.Value...),
		Height:   a.Height,
	}
}

var archive = orm.NewModelBucket("archive", &ArchivedContract{},
	orm.WithIndex("template", func(obj orm.Object) ([]byte, error) {
		a, ok := obj.Value().(*ArchivedContract)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
		}
		return []byte(a.Template), nil
	}, false),
)

// loadArchived returns the history entry of given contract or ErrNotFound.
func loadArchived(db ledger.ReadOnlyKVStore, id ID) (*ArchivedContract, error) {
	var a ArchivedContract
	if err := archive.One(db, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// RegisterQuery exposes the archive under /archive and /archive/template.
func RegisterQuery(qr ledger.QueryRouter) {
	archive.Register("archive", qr)
}
