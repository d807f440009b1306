package asset

import (
	"bytes"
	"encoding/binary"
	"regexp"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

const maxReferenceSize = 128

var isSymbol = regexp.MustCompile(`^[A-Za-z0-9_\-.]{1,32}$`).MatchString

// AssetType identifies a class of assets created by an issuer.
type AssetType struct {
	Issuer   ledger.Address `json:"issuer"`
	Symbol   string         `json:"symbol"`
	Fungible bool           `json:"fungible"`
	// Reference is an optional, free form description. Empty means absent.
	Reference string `json:"reference,omitempty"`
}

// Validate returns an error if the asset type is not well formed.
func (t AssetType) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(t.Issuer.Validate(), "issuer"))
	if !isSymbol(t.Symbol) {
		err = errors.Append(err, errors.Wrapf(errors.ErrInput, "symbol %q", t.Symbol))
	}
	if len(t.Reference) > maxReferenceSize {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "reference too long"))
	}
	return err
}

// Equals compares all fields.
func (t AssetType) Equals(o AssetType) bool {
	return t.Compare(o) == 0
}

// Compare orders asset types by issuer, symbol, fungibility and reference.
func (t AssetType) Compare(o AssetType) int {
	if c := t.Issuer.Compare(o.Issuer); c != 0 {
		return c
	}
	if c := strings.Compare(t.Symbol, o.Symbol); c != 0 {
		return c
	}
	if t.Fungible != o.Fungible {
		if !t.Fungible {
			return -1
		}
		return 1
	}
	return strings.Compare(t.Reference, o.Reference)
}

// Key returns the canonical binary encoding of the asset type. Every
// variable length field is length prefixed, so distinct types never share
// an encoding.
func (t AssetType) Key() []byte {
	var b bytes.Buffer
	writeChunk(&b, t.Issuer)
	writeChunk(&b, []byte(t.Symbol))
	if t.Fungible {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	writeChunk(&b, []byte(t.Reference))
	return b.Bytes()
}

func writeChunk(b *bytes.Buffer, chunk []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(chunk)))
	b.Write(size[:])
	b.Write(chunk)
}

// HoldingKey is the logical key of a position: an asset type and an owner.
func HoldingKey(t AssetType, owner ledger.Address) []byte {
	var b bytes.Buffer
	writeChunk(&b, t.Key())
	writeChunk(&b, owner)
	return b.Bytes()
}

// CheckAmount returns an error if the amount cannot be held in a position of
// this type. Fungible positions must be positive, non-fungible ones are
// either 0 or 1.
func (t AssetType) CheckAmount(a amount.Amount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if t.Fungible {
		if !a.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "fungible amount must be positive, got %s", a)
		}
		return nil
	}
	if !a.IsZero() && !a.IsOne() {
		return errors.Wrapf(errors.ErrAmount, "non-fungible amount must be 0 or 1, got %s", a)
	}
	return nil
}

// Asset is the position an owner holds in an asset type.
type Asset struct {
	Type   AssetType      `json:"asset_type"`
	Owner  ledger.Address `json:"owner"`
	Amount amount.Amount  `json:"amount"`
}

var _ contract.Record = (*Asset)(nil)

func (a *Asset) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(a) }
func (a *Asset) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, a) }

func (a *Asset) Copy() orm.CloneableData {
	return &Asset{
		Type:   a.Type.copy(),
		Owner:  a.Owner.Clone(),
		Amount: a.Amount,
	}
}

func (t AssetType) copy() AssetType {
	cpy := t
	cpy.Issuer = t.Issuer.Clone()
	return cpy
}

func (a *Asset) Validate() error {
	if err := a.Type.Validate(); err != nil {
		return errors.Wrap(err, "asset type")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return errors.Wrap(a.Type.CheckAmount(a.Amount), "amount")
}

// Signatories are the issuer and the owner.
func (a *Asset) Signatories() []ledger.Address {
	return []ledger.Address{a.Type.Issuer, a.Owner}
}

func (a *Asset) Observers() []ledger.Address { return nil }

func (a *Asset) ContractKey() []byte {
	return HoldingKey(a.Type, a.Owner)
}

// NewAssetTemplate returns the template storing assets. Assets can be
// queried by owner.
func NewAssetTemplate() contract.Template {
	return contract.NewTemplate("asset", &Asset{},
		orm.WithIndex("owner", assetOwnerIndex, false))
}

func assetOwnerIndex(obj orm.Object) ([]byte, error) {
	a, ok := obj.Value().(*Asset)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a.Owner, nil
}

// AssetTransfer is an amount taken out of an asset position, waiting for
// the recipient.
type AssetTransfer struct {
	// Asset identifies the position the amount was taken from. Its amount is
	// the transferred amount, never the owner's balance.
	Asset Asset `json:"asset"`
	// Sender is the counterpart of the recipient. It is the asset owner
	// unless the transfer was rejected, in which case it is the rejecting
	// party.
	Sender    ledger.Address `json:"sender"`
	Recipient ledger.Address `json:"recipient"`
	Amount    amount.Amount  `json:"amount"`
}

var _ contract.Record = (*AssetTransfer)(nil)

func (t *AssetTransfer) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(t) }
func (t *AssetTransfer) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, t) }

func (t *AssetTransfer) Copy() orm.CloneableData {
	return &AssetTransfer{
		Asset:     *t.Asset.Copy().(*Asset),
		Sender:    t.Sender.Clone(),
		Recipient: t.Recipient.Clone(),
		Amount:    t.Amount,
	}
}

func (t *AssetTransfer) Validate() error {
	if err := t.Asset.Type.Validate(); err != nil {
		return errors.Wrap(err, "asset type")
	}
	if err := t.Asset.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := t.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := t.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return errors.Wrap(ValidateTransferAmount(t.Asset.Type, t.Amount), "amount")
}

// ValidateTransferAmount returns an error if the amount cannot be
// transferred. Transfers are never negative and a non-fungible transfer is
// either 0 or 1.
func ValidateTransferAmount(t AssetType, a amount.Amount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsNegative() {
		return errors.Wrapf(errors.ErrAmount, "negative transfer %s", a)
	}
	if !t.Fungible && !a.IsZero() && !a.IsOne() {
		return errors.Wrapf(errors.ErrAmount, "non-fungible transfer must be 0 or 1, got %s", a)
	}
	return nil
}

// Signatories are the signatories of the asset snapshot.
func (t *AssetTransfer) Signatories() []ledger.Address {
	return t.Asset.Signatories()
}

// Observers are the recipient and the sender.
func (t *AssetTransfer) Observers() []ledger.Address {
	if t.Sender.Equals(t.Recipient) {
		return []ledger.Address{t.Recipient}
	}
	return []ledger.Address{t.Recipient, t.Sender}
}

// Reversed returns the transfer sent back to its sender. The asset snapshot
// and the amount are unchanged.
func (t *AssetTransfer) Reversed() *AssetTransfer {
	r := t.Copy().(*AssetTransfer)
	r.Sender, r.Recipient = r.Recipient, r.Sender
	return r
}

func (t *AssetTransfer) ContractKey() []byte { return nil }

// NewTransferTemplate returns the template storing transfers. Transfers can
// be queried by recipient and by the owner of the asset they come from.
func NewTransferTemplate() contract.Template {
	return contract.NewTemplate("transfer", &AssetTransfer{},
		orm.WithIndex("recipient", transferRecipientIndex, false),
		orm.WithIndex("owner", transferOwnerIndex, false))
}

func transferRecipientIndex(obj orm.Object) ([]byte, error) {
	t, ok := obj.Value().(*AssetTransfer)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return t.Recipient, nil
}

func transferOwnerIndex(obj orm.Object) ([]byte, error) {
	t, ok := obj.Value().(*AssetTransfer)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return t.Asset.Owner, nil
}
