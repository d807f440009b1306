package account

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/asset"
)

// AssetHoldingAccount allows the owner to hold assets of a type.
type AssetHoldingAccount struct {
	Type  asset.AssetType `json:"asset_type"`
	Owner ledger.Address  `json:"owner"`
	// Airdroppable accounts accept assets minted by the issuer.
	Airdroppable bool `json:"airdroppable"`
	// Resharable accounts let the owner invite new holders. Otherwise only
	// the issuer can.
	Resharable bool `json:"resharable"`
}

var _ contract.Record = (*AssetHoldingAccount)(nil)

func (a *AssetHoldingAccount) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(a) }
func (a *AssetHoldingAccount) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, a) }

func (a *AssetHoldingAccount) Copy() orm.CloneableData {
	cpy := *a
	cpy.Type.Issuer = a.Type.Issuer.Clone()
	cpy.Owner = a.Owner.Clone()
	return &cpy
}

func (a *AssetHoldingAccount) Validate() error {
	if err := a.Type.Validate(); err != nil {
		return errors.Wrap(err, "asset type")
	}
	return errors.Wrap(a.Owner.Validate(), "owner")
}

// Signatories are the issuer and the owner.
func (a *AssetHoldingAccount) Signatories() []ledger.Address {
	return []ledger.Address{a.Type.Issuer, a.Owner}
}

func (a *AssetHoldingAccount) Observers() []ledger.Address { return nil }

func (a *AssetHoldingAccount) ContractKey() []byte {
	return asset.HoldingKey(a.Type, a.Owner)
}

// inviter is the party allowed to invite new holders.
func (a *AssetHoldingAccount) inviter() ledger.Address {
	if a.Resharable {
		return a.Owner
	}
	return a.Type.Issuer
}

// acceptsAirdrop returns true if the issuer may mint into this account.
func (a *AssetHoldingAccount) acceptsAirdrop() bool {
	return a.Airdroppable || a.Type.Issuer.Equals(a.Owner)
}

// NewAccountTemplate returns the template storing accounts. Accounts can be
// queried by owner.
func NewAccountTemplate() contract.Template {
	return contract.NewTemplate("account", &AssetHoldingAccount{},
		orm.WithIndex("owner", accountOwnerIndex, false))
}

func accountOwnerIndex(obj orm.Object) ([]byte, error) {
	a, ok := obj.Value().(*AssetHoldingAccount)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a.Owner, nil
}

// AssetHoldingAccountProposal invites the recipient to hold an account
// like the one it was created from.
type AssetHoldingAccountProposal struct {
	Account   AssetHoldingAccount `json:"account"`
	Recipient ledger.Address      `json:"recipient"`
}

var _ contract.Record = (*AssetHoldingAccountProposal)(nil)

func (p *AssetHoldingAccountProposal) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(p) }
func (p *AssetHoldingAccountProposal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

func (p *AssetHoldingAccountProposal) Copy() orm.CloneableData {
	return &AssetHoldingAccountProposal{
		Account:   *p.Account.Copy().(*AssetHoldingAccount),
		Recipient: p.Recipient.Clone(),
	}
}

// Validate reports the problems of both the proposed account and the
// recipient.
func (p *AssetHoldingAccountProposal) Validate() error {
	return x.ValidateAll(&p.Account, p.Recipient)
}

// Signatories is the issuer only. The recipient did not agree to anything
// yet.
func (p *AssetHoldingAccountProposal) Signatories() []ledger.Address {
	return []ledger.Address{p.Account.Type.Issuer}
}

func (p *AssetHoldingAccountProposal) Observers() []ledger.Address {
	return []ledger.Address{p.Recipient}
}

func (p *AssetHoldingAccountProposal) ContractKey() []byte { return nil }

// Proposed returns the account the recipient holds once the proposal is
// accepted.
func (p *AssetHoldingAccountProposal) Proposed() *AssetHoldingAccount {
	a := p.Account.Copy().(*AssetHoldingAccount)
	a.Owner = p.Recipient.Clone()
	return a
}

// NewProposalTemplate returns the template storing proposals. Proposals can
// be queried by recipient.
func NewProposalTemplate() contract.Template {
	return contract.NewTemplate("proposal", &AssetHoldingAccountProposal{},
		orm.WithIndex("recipient", proposalRecipientIndex, false))
}

func proposalRecipientIndex(obj orm.Object) ([]byte, error) {
	p, ok := obj.Value().(*AssetHoldingAccountProposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return p.Recipient, nil
}
