package account

import (
	"github.com/iov-one/ledger/errors"
)

// Reserved codes 110~119
var (
	// ErrAirdropNotAccepted is returned when the issuer airdrops into an
	// account of another owner that does not accept airdrops.
	ErrAirdropNotAccepted = errors.Register(110, "airdrop not accepted")

	ErrInvalidNonFungibleAmount = errors.Register(111, "invalid non-fungible amount")

	// ErrNonFungibleSlotOccupied is returned when a non-fungible asset is
	// airdropped to an owner already holding one.
	ErrNonFungibleSlotOccupied = errors.Register(112, "non-fungible slot occupied")
)
