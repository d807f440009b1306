package asset

import (
	"github.com/iov-one/ledger/errors"
)

// Reserved codes 100~109
var (
	// ErrInsufficientFunds is returned when a position does not exist or
	// holds less than the amount taken out of it.
	ErrInsufficientFunds = errors.Register(100, "insufficient funds")

	// ErrDuplicateNonFungibleHolding is returned when a non-fungible asset
	// would be delivered to an owner already holding a position of its type.
	ErrDuplicateNonFungibleHolding = errors.Register(101, "duplicate non-fungible holding")
)
