package orm

import (
	"github.com/iov-one/ledger/errors"
)

// Orm reserves 120~129 error codes

// ErrInvalidIndex is returned when an index specified is invalid
var ErrInvalidIndex = errors.Register(120, "invalid index")
