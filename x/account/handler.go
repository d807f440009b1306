package account

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/asset"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl asset.Controller) {
	accounts := NewAccountTemplate()
	proposals := NewProposalTemplate()
	r.Handle(&CreateAccountMsg{}, &CreateAccountHandler{auth: auth, accounts: accounts})
	r.Handle(&InviteMsg{}, &InviteHandler{auth: auth, accounts: accounts, proposals: proposals})
	r.Handle(&AirdropMsg{}, &AirdropHandler{auth: auth, accounts: accounts, ctrl: ctrl})
	r.Handle(&CreateTransferMsg{}, &CreateTransferHandler{auth: auth, accounts: accounts, ctrl: ctrl})
	r.Handle(&AcceptProposalMsg{}, &AcceptProposalHandler{auth: auth, accounts: accounts, proposals: proposals})
	r.Handle(&RejectProposalMsg{}, &RejectProposalHandler{auth: auth, proposals: proposals})
}

// RegisterQuery will register accounts as "/accounts" and proposals as
// "/proposals", together with their indexes.
func RegisterQuery(qr ledger.QueryRouter) {
	NewAccountTemplate().Register("accounts", qr)
	NewProposalTemplate().Register("proposals", qr)
}

func loadAccount(db ledger.ReadOnlyKVStore, accounts contract.Template, id contract.ID) (*AssetHoldingAccount, error) {
	var a AssetHoldingAccount
	if err := accounts.Fetch(db, id, &a); err != nil {
		return nil, errors.Wrap(err, "cannot load account")
	}
	return &a, nil
}

func loadProposal(db ledger.ReadOnlyKVStore, proposals contract.Template, id contract.ID) (*AssetHoldingAccountProposal, error) {
	var p AssetHoldingAccountProposal
	if err := proposals.Fetch(db, id, &p); err != nil {
		return nil, errors.Wrap(err, "cannot load proposal")
	}
	return &p, nil
}

// CreateAccountHandler creates an account both its issuer and its owner
// agreed to.
type CreateAccountHandler struct {
	auth     x.Authenticator
	accounts contract.Template
}

var _ ledger.Handler = (*CreateAccountHandler)(nil)

func (h *CreateAccountHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *CreateAccountHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth))
	id, err := h.accounts.Create(ctx, db, auth, &msg.Account)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "account created"}, nil
}

func (h *CreateAccountHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireAllAddresses(ctx, h.auth, msg.Account.Signatories()...); err != nil {
		return nil, err
	}
	var existing AssetHoldingAccount
	switch id, err := h.accounts.LookupByKey(db, msg.Account.ContractKey(), &existing); {
	case err != nil:
		return nil, err
	case id != nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", id)
	}
	return &msg, nil
}

// InviteHandler proposes an account to a new holder.
type InviteHandler struct {
	auth      x.Authenticator
	accounts  contract.Template
	proposals contract.Template
}

var _ ledger.Handler = (*InviteHandler)(nil)

func (h *InviteHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *InviteHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// Whether the recipient already holds such an account is not checked.
	// Accepting would fail on the account key.
	proposal := AssetHoldingAccountProposal{
		Account:   *account,
		Recipient: msg.Recipient,
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth), account.Signatories())
	id, err := h.proposals.Create(ctx, db, auth, &proposal)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "holder invited"}, nil
}

func (h *InviteHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*InviteMsg, *AssetHoldingAccount, error) {
	var msg InviteMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	account, err := loadAccount(db, h.accounts, msg.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireAllAddresses(ctx, h.auth, account.inviter()); err != nil {
		return nil, nil, err
	}
	return &msg, account, nil
}

// AirdropHandler lets the issuer mint into an account.
type AirdropHandler struct {
	auth     x.Authenticator
	accounts contract.Template
	ctrl     asset.Controller
}

var _ ledger.Handler = (*AirdropHandler)(nil)

func (h *AirdropHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *AirdropHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth), account.Signatories())
	id, err := h.ctrl.Deposit(ctx, db, auth, account.Type, account.Owner, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "airdropped"}, nil
}

func (h *AirdropHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*AirdropMsg, *AssetHoldingAccount, error) {
	var msg AirdropMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	account, err := loadAccount(db, h.accounts, msg.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireAllAddresses(ctx, h.auth, account.Type.Issuer); err != nil {
		return nil, nil, err
	}
	if !account.acceptsAirdrop() {
		return nil, nil, errors.Wrapf(ErrAirdropNotAccepted, "account of %s", account.Owner)
	}
	if account.Type.Fungible {
		if !msg.Amount.IsPositive() {
			return nil, nil, errors.Wrapf(errors.ErrAmount, "airdrop of %s", msg.Amount)
		}
		return &msg, account, nil
	}
	if !msg.Amount.IsOne() {
		return nil, nil, errors.Wrapf(ErrInvalidNonFungibleAmount, "airdrop of %s", msg.Amount)
	}
	switch id, _, err := h.ctrl.Position(db, account.Type, account.Owner); {
	case err != nil:
		return nil, nil, err
	case id != nil:
		return nil, nil, errors.Wrapf(ErrNonFungibleSlotOccupied, "%s holds %s", account.Owner, account.Type.Symbol)
	}
	return &msg, account, nil
}

// CreateTransferHandler moves an amount out of the owner's position into a
// transfer.
type CreateTransferHandler struct {
	auth     x.Authenticator
	accounts contract.Template
	ctrl     asset.Controller
}

var _ ledger.Handler = (*CreateTransferHandler)(nil)

func (h *CreateTransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	_, position, err := h.ctrl.Position(db, account.Type, account.Owner)
	if err != nil {
		return nil, err
	}
	if position == nil || !position.Amount.IsGTE(msg.Amount) {
		return nil, errors.Wrapf(asset.ErrInsufficientFunds, "transfer of %s", msg.Amount)
	}
	return &ledger.CheckResult{}, nil
}

func (h *CreateTransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth), account.Signatories())
	id, err := h.ctrl.Transfer(ctx, db, auth, account.Type, account.Owner, msg.Recipient, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "transfer created"}, nil
}

func (h *CreateTransferHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CreateTransferMsg, *AssetHoldingAccount, error) {
	var msg CreateTransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	account, err := loadAccount(db, h.accounts, msg.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireAllAddresses(ctx, h.auth, account.Owner); err != nil {
		return nil, nil, err
	}
	return &msg, account, nil
}

// AcceptProposalHandler turns a proposal into an account of the recipient.
type AcceptProposalHandler struct {
	auth      x.Authenticator
	accounts  contract.Template
	proposals contract.Template
}

var _ ledger.Handler = (*AcceptProposalHandler)(nil)

func (h *AcceptProposalHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *AcceptProposalHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth), proposal.Signatories())
	if err := h.proposals.Archive(ctx, db, auth, msg.ProposalID); err != nil {
		return nil, errors.Wrap(err, "archive proposal")
	}
	id, err := h.accounts.Create(ctx, db, auth, proposal.Proposed())
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "proposal accepted"}, nil
}

func (h *AcceptProposalHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*AcceptProposalMsg, *AssetHoldingAccountProposal, error) {
	var msg AcceptProposalMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	proposal, err := loadProposal(db, h.proposals, msg.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireAllAddresses(ctx, h.auth, proposal.Recipient); err != nil {
		return nil, nil, err
	}
	return &msg, proposal, nil
}

// RejectProposalHandler discards a proposal.
type RejectProposalHandler struct {
	auth      x.Authenticator
	proposals contract.Template
}

var _ ledger.Handler = (*RejectProposalHandler)(nil)

func (h *RejectProposalHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h *RejectProposalHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := contract.NewAuthority(x.GetAddresses(ctx, h.auth), proposal.Signatories())
	if err := h.proposals.Archive(ctx, db, auth, msg.ProposalID); err != nil {
		return nil, errors.Wrap(err, "archive proposal")
	}
	return &ledger.DeliverResult{Log: "proposal rejected"}, nil
}

func (h *RejectProposalHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*RejectProposalMsg, *AssetHoldingAccountProposal, error) {
	var msg RejectProposalMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	proposal, err := loadProposal(db, h.proposals, msg.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireAllAddresses(ctx, h.auth, proposal.Recipient); err != nil {
		return nil, nil, err
	}
	return &msg, proposal, nil
}
