package contract

import (
	"reflect"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// KeyIndex is the name of the unique index over the logical key. Queries of
// a template registered under "/name" can look up records by key under
// "/name/key".
const KeyIndex = "key"

// Template stores the records of a single type.
type Template struct {
	name   string
	bucket orm.ModelBucket
	model  reflect.Type
}

// NewTemplate returns a template storing records of the prototype's type.
// Additional, non key, indexes can be declared with orm.WithIndex.
func NewTemplate(name string, proto Record, opts ...orm.ModelBucketOption) Template {
	tp := reflect.TypeOf(proto)
	if tp.Kind() != reflect.Ptr {
		panic("record prototype must be a pointer")
	}
	opts = append([]orm.ModelBucketOption{
		orm.WithIDSequence(idSeq),
		orm.WithIndex(KeyIndex, keyIndexer, true),
	}, opts...)
	return Template{
		name:   name,
		bucket: orm.NewModelBucket(name, proto, opts...),
		model:  tp.Elem(),
	}
}

func keyIndexer(obj orm.Object) ([]byte, error) {
	r, ok := obj.Value().(Record)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a record", obj.Value())
	}
	return r.ContractKey(), nil
}

// Name returns the name of the record type.
func (t Template) Name() string {
	return t.name
}

// Register exposes the records and their indexes to queries.
func (t Template) Register(name string, qr ledger.QueryRouter) {
	t.bucket.Register(name, qr)
}

func (t Template) newRecord() Record {
	return reflect.New(t.model).Interface().(Record)
}

// Create stores a new record and returns its ID. All signatories of the
// record must be part of the authority.
func (t Template) Create(ctx ledger.Context, db ledger.KVStore, auth Authority, r Record) (ID, error) {
	if err := r.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "%s: %s", t.name, err)
	}
	if err := auth.Require(r.Signatories()); err != nil {
		return nil, errors.Wrapf(err, "create %s", t.name)
	}
	key, err := t.bucket.Put(db, nil, r)
	if err != nil {
		if errors.ErrDuplicate.Is(err) {
			return nil, errors.Wrapf(errors.ErrDuplicate, "%s with key %X", t.name, r.ContractKey())
		}
		return nil, err
	}
	ledger.GetLogger(ctx).Debug("contract created", "template", t.name, "id", ID(key))
	return key, nil
}

// Fetch loads an active record into dest. ErrArchived is returned for a
// record that was archived, ErrNotFound if it never existed.
func (t Template) Fetch(db ledger.ReadOnlyKVStore, id ID, dest Record) error {
	err := t.bucket.One(db, id, dest)
	if !errors.ErrNotFound.Is(err) {
		return err
	}
	switch a, aerr := loadArchived(db, id); {
	case aerr == nil && a.Template == t.name:
		return errors.Wrapf(errors.ErrArchived, "%s %s", t.name, id)
	case aerr != nil && !errors.ErrNotFound.Is(aerr):
		return aerr
	}
	return errors.Wrapf(errors.ErrNotFound, "%s %s", t.name, id)
}

// FetchAs is Fetch on behalf of a reader. Only signatories and observers
// of a record can read it.
func (t Template) FetchAs(db ledger.ReadOnlyKVStore, reader ledger.Address, id ID, dest Record) error {
	if err := t.Fetch(db, id, dest); err != nil {
		return err
	}
	if !CanRead(dest, reader) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s cannot read %s %s", reader, t.name, id)
	}
	return nil
}

// LookupByKey finds the active record with given logical key. The record is
// loaded into dest. A nil ID and no error is returned when there is none.
func (t Template) LookupByKey(db ledger.ReadOnlyKVStore, key []byte, dest Record) (ID, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	found := reflect.New(reflect.SliceOf(reflect.PtrTo(t.model)))
	ids, err := t.bucket.ByIndex(db, KeyIndex, key, found.Interface())
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, nil
	case 1:
		rv := reflect.ValueOf(dest)
		if rv.Type() != reflect.PtrTo(t.model) {
			return nil, errors.Wrapf(errors.ErrType, "%s cannot be loaded into %T", t.name, dest)
		}
		rv.Elem().Set(found.Elem().Index(0).Elem())
		return ids[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d %s records with key %X", len(ids), t.name, key)
	}
}

// ByIndex returns the IDs of the active records indexed under given value.
// The records are appended to dest, a pointer to a slice of records.
func (t Template) ByIndex(db ledger.ReadOnlyKVStore, index string, value []byte, dest orm.ModelSlicePtr) ([]ID, error) {
	keys, err := t.bucket.ByIndex(db, index, value, dest)
	if err != nil {
		return nil, err
	}
	ids := make([]ID, len(keys))
	for i, k := range keys {
		ids[i] = k
	}
	return ids, nil
}

// Archive retires an active record. All signatories of the record must be
// part of the authority. The record is kept in the archive.
func (t Template) Archive(ctx ledger.Context, db ledger.KVStore, auth Authority, id ID) error {
	r := t.newRecord()
	if err := t.Fetch(db, id, r); err != nil {
		return err
	}
	if err := auth.Require(r.Signatories()); err != nil {
		return errors.Wrapf(err, "archive %s %s", t.name, id)
	}
	raw, err := r.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	if err := t.bucket.Delete(db, id); err != nil {
		return errors.Wrap(err, "delete")
	}
	height, _ := ledger.GetHeight(ctx)
	entry := ArchivedContract{Template: t.name, Value: raw, Height: height}
	if _, err := archive.Put(db, id, &entry); err != nil {
		return errors.Wrap(err, "archive")
	}
	ledger.GetLogger(ctx).Debug("contract archived", "template", t.name, "id", id)
	return nil
}

// FetchArchived loads an archived record into dest and returns the height
// it was archived at.
func (t Template) FetchArchived(db ledger.ReadOnlyKVStore, id ID, dest Record) (int64, error) {
	a, err := loadArchived(db, id)
	if err != nil {
		return 0, err
	}
	if a.Template != t.name {
		return 0, errors.Wrapf(errors.ErrNotFound, "%s %s", t.name, id)
	}
	if err := dest.Unmarshal(a.Value); err != nil {
		return 0, errors.Wrap(err, "unmarshal")
	}
	return a.Height, nil
}
