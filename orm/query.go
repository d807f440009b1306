package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// queryPrefix returns all models whose key starts with prefix, in key order.
func queryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(itr)
}

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(itr ledger.Iterator) ([]ledger.Model, error) {
	defer itr.Release()

	var res []ledger.Model
	for {
		switch key, value, err := itr.Next(); {
		case err == nil:
			res = append(res, ledger.Model{Key: key, Value: value})
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// prefixRange turns a prefix into a (start, end) range. The start is the
// given prefix value and the end is calculated by adding 1 bit to the start
// value. Nil is not allowed as prefix.
//		Example: []byte{1, 3, 4} becomes []byte{1, 3, 5}
//				 []byte{15, 42, 255, 255} becomes []byte{15, 43, 0, 0}
//
// In case of an overflow the end is set to nil.
//		Example: []byte{255, 255, 255, 255} becomes nil
func prefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return nil, nil
	}

	start := make([]byte, len(prefix))
	copy(start, prefix)

	end := make([]byte, len(prefix))
	copy(end, prefix)

	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return start, end
}
