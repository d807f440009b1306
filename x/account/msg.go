package account

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
)

var (
	_ ledger.Msg = (*CreateAccountMsg)(nil)
	_ ledger.Msg = (*InviteMsg)(nil)
	_ ledger.Msg = (*AirdropMsg)(nil)
	_ ledger.Msg = (*CreateTransferMsg)(nil)
	_ ledger.Msg = (*AcceptProposalMsg)(nil)
	_ ledger.Msg = (*RejectProposalMsg)(nil)
)

// CreateAccountMsg creates an account signed by both its issuer and its
// owner.
type CreateAccountMsg struct {
	Account AssetHoldingAccount `json:"account"`
}

func (CreateAccountMsg) Path() string { return "account/create_account" }

func (m *CreateAccountMsg) Validate() error {
	return errors.Wrap(m.Account.Validate(), "account")
}

func (m *CreateAccountMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *CreateAccountMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// InviteMsg proposes an account like AccountID to the recipient.
type InviteMsg struct {
	AccountID contract.ID    `json:"account_id"`
	Recipient ledger.Address `json:"recipient"`
}

func (InviteMsg) Path() string { return "account/invite" }

func (m *InviteMsg) Validate() error {
	if err := m.AccountID.Validate(); err != nil {
		return errors.Wrap(err, "account id")
	}
	return errors.Wrap(m.Recipient.Validate(), "recipient")
}

func (m *InviteMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *InviteMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// AirdropMsg mints an amount into an account.
type AirdropMsg struct {
	AccountID contract.ID   `json:"account_id"`
	Amount    amount.Amount `json:"amount"`
}

func (AirdropMsg) Path() string { return "account/airdrop" }

func (m *AirdropMsg) Validate() error {
	if err := m.AccountID.Validate(); err != nil {
		return errors.Wrap(err, "account id")
	}
	return errors.Wrap(m.Amount.Validate(), "amount")
}

func (m *AirdropMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *AirdropMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// CreateTransferMsg moves an amount out of the account owner's position
// into a transfer to the recipient.
type CreateTransferMsg struct {
	AccountID contract.ID    `json:"account_id"`
	Recipient ledger.Address `json:"recipient"`
	Amount    amount.Amount  `json:"amount"`
}

func (CreateTransferMsg) Path() string { return "account/create_transfer" }

func (m *CreateTransferMsg) Validate() error {
	if err := m.AccountID.Validate(); err != nil {
		return errors.Wrap(err, "account id")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.Amount.IsNegative() {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	return nil
}

func (m *CreateTransferMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *CreateTransferMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// AcceptProposalMsg creates the proposed account.
type AcceptProposalMsg struct {
	ProposalID contract.ID `json:"proposal_id"`
}

func (AcceptProposalMsg) Path() string { return "account/accept_proposal" }

func (m *AcceptProposalMsg) Validate() error {
	return errors.Wrap(m.ProposalID.Validate(), "proposal id")
}

func (m *AcceptProposalMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *AcceptProposalMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// RejectProposalMsg discards a proposal.
type RejectProposalMsg struct {
	ProposalID contract.ID `json:"proposal_id"`
}

func (RejectProposalMsg) Path() string { return "account/reject_proposal" }

func (m *RejectProposalMsg) Validate() error {
	return errors.Wrap(m.ProposalID.Validate(), "proposal id")
}

func (m *RejectProposalMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *RejectProposalMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
