package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/iov-one/ledger/x/auth"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers the transaction envelope together with every
// message it can carry.
func RegisterCodec(c *amino.Codec) {
	c.RegisterInterface((*ledger.Msg)(nil), nil)
	asset.RegisterCodec(c)
	account.RegisterCodec(c)
}

// Tx is the envelope of a message submitted on behalf of parties.
type Tx struct {
	Parties []string   `json:"parties"`
	Msg     ledger.Msg `json:"msg"`
}

var _ auth.PartyTx = (*Tx)(nil)

// NewTx returns a transaction submitting the message on behalf of the
// parties.
func NewTx(msg ledger.Msg, parties ...string) *Tx {
	return &Tx{Parties: parties, Msg: msg}
}

func (tx *Tx) GetMsg() (ledger.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetParties() []string {
	return tx.Parties
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, tx)
}

// DecodeTx is the ledger.TxDecoder of the Tx envelope.
func DecodeTx(raw []byte) (ledger.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}

var _ ledger.TxDecoder = DecodeTx
