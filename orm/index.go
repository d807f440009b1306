package orm

import (
	"bytes"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Index is a secondary index over the objects of a bucket.
type Index interface {
	ledger.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update keeps the index in sync with a bucket write. A nil prev is an
	// insert, a nil save is a delete. Both objects must share the primary
	// key.
	Update(db ledger.KVStore, prev Object, save Object) error

	// Keys returns an iterator over the primary keys indexed under value.
	// The iterator values are always nil, records are loaded on demand.
	Keys(db ledger.ReadOnlyKVStore, value []byte) ledger.Iterator
}

const indexPrefix = "_i."

// Indexer calculates the secondary index value of an object. A nil value
// leaves the object out of the index.
type Indexer func(Object) ([]byte, error)

// refIndex stores, under every index value, either the single primary key
// referencing it (unique) or a MultiRef of all of them.
type refIndex struct {
	name    string
	prefix  []byte
	unique  bool
	indexer Indexer
	refKey  func([]byte) []byte
}

var _ Index = refIndex{}

// NewIndex constructs an index. unique enforces that at most one object is
// stored under a value. refKey maps a primary key to its db key, used to
// load the indexed objects in queries.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	if refKey == nil {
		refKey = func(b []byte) []byte { return b }
	}
	return refIndex{
		name:    name,
		prefix:  []byte(indexPrefix + name + ":"),
		unique:  unique,
		indexer: indexer,
		refKey:  refKey,
	}
}

func (i refIndex) Name() string {
	return i.name
}

// dbKey returns a fresh slice, callers may keep it.
func (i refIndex) dbKey(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value))
	out = append(out, i.prefix...)
	return append(out, value...)
}

func (i refIndex) Update(db ledger.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrInput, "update requires at least one non-nil object")
	case prev == nil:
		value, err := i.indexer(save)
		if err != nil {
			return err
		}
		return i.insert(db, value, save.Key())
	case save == nil:
		value, err := i.indexer(prev)
		if err != nil {
			return err
		}
		return i.remove(db, value, prev.Key())
	}

	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}
	before, err := i.indexer(prev)
	if err != nil {
		return err
	}
	after, err := i.indexer(save)
	if err != nil {
		return err
	}
	if bytes.Equal(before, after) {
		return nil
	}
	// Insert first, a unique conflict must leave the old entry in place.
	if err := i.insert(db, after, save.Key()); err != nil {
		return err
	}
	return i.remove(db, before, prev.Key())
}

func (i refIndex) Keys(db ledger.ReadOnlyKVStore, value []byte) ledger.Iterator {
	raw, err := db.Get(i.dbKey(value))
	if err != nil {
		return &failedIterator{err: err}
	}
	refs, err := i.decode(raw)
	if err != nil {
		return &failedIterator{err: err}
	}
	return &keysIterator{keys: refs}
}

// decode returns the primary keys stored under one index value.
func (i refIndex) decode(raw []byte) ([][]byte, error) {
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, err
	}
	return refs.GetRefs(), nil
}

type failedIterator struct {
	err error
}

var _ ledger.Iterator = (*failedIterator)(nil)

func (it *failedIterator) Next() ([]byte, []byte, error) {
	return nil, nil, it.err
}

func (failedIterator) Release() {}

type keysIterator struct {
	keys [][]byte
}

var _ ledger.Iterator = (*keysIterator)(nil)

func (it *keysIterator) Next() ([]byte, []byte, error) {
	if len(it.keys) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	key := it.keys[0]
	it.keys = it.keys[1:]
	return key, nil, nil
}

func (keysIterator) Release() {}

// consumeIteratorKeys drains and releases the iterator. All keys are kept
// in memory.
func consumeIteratorKeys(it ledger.Iterator) ([][]byte, error) {
	defer it.Release()

	var keys [][]byte
	for {
		switch k, _, err := it.Next(); {
		case err == nil:
			keys = append(keys, k)
		case errors.ErrIteratorDone.Is(err):
			return keys, nil
		default:
			return keys, err
		}
	}
}

// prefixRefs returns the primary keys of all index values starting with
// prefix.
func (i refIndex) prefixRefs(db ledger.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	itr, err := db.Iterator(prefixRange(i.dbKey(prefix)))
	if err != nil {
		return nil, err
	}
	defer itr.Release()

	var all [][]byte
	for {
		_, raw, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		refs, err := i.decode(raw)
		if err != nil {
			return nil, err
		}
		all = append(all, refs...)
	}
}

func (i refIndex) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case ledger.KeyQueryMod:
		refs, err = consumeIteratorKeys(i.Keys(db, data))
	case ledger.PrefixQueryMod:
		refs, err = i.prefixRefs(db, data)
	default:
		return nil, errors.Wrap(errors.ErrInput, "not implemented: "+mod)
	}
	if err != nil || len(refs) == 0 {
		return nil, err
	}

	res := make([]ledger.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = ledger.Model{Key: key, Value: value}
	}
	return res, nil
}

func (i refIndex) remove(db ledger.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if refs.Size() == 0 {
		return db.Delete(key)
	}
	out, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, out)
}

func (i refIndex) insert(db ledger.KVStore, value []byte, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if raw != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	out, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, out)
}
