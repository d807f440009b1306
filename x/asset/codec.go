package asset

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers the messages of this package so that a
// transaction envelope can carry them as a ledger.Msg.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CancelTransferMsg{}, "asset/CancelTransferMsg", nil)
	c.RegisterConcrete(&RejectTransferMsg{}, "asset/RejectTransferMsg", nil)
	c.RegisterConcrete(&AcceptTransferMsg{}, "asset/AcceptTransferMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "asset/UpdateConfigurationMsg", nil)
}
