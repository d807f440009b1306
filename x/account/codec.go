package account

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
	c.RegisterConcrete(&CreateAccountMsg{}, "account/CreateAccountMsg", nil)
	c.RegisterConcrete(&InviteMsg{}, "account/InviteMsg", nil)
	c.RegisterConcrete(&AirdropMsg{}, "account/AirdropMsg", nil)
	c.RegisterConcrete(&CreateTransferMsg{}, "account/CreateTransferMsg", nil)
	c.RegisterConcrete(&AcceptProposalMsg{}, "account/AcceptProposalMsg", nil)
	c.RegisterConcrete(&RejectProposalMsg{}, "account/RejectProposalMsg", nil)
}
