package asset

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. initConfAdmin may be nil, see gconf.NewUpdateConfigurationHandler.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl Controller, initConfAdmin func(ledger.ReadOnlyKVStore) (ledger.Address, error)) {
	r.Handle(&CancelTransferMsg{}, NewCancelTransferHandler(auth, ctrl))
	r.Handle(&RejectTransferMsg{}, NewRejectTransferHandler(auth, ctrl))
	r.Handle(&AcceptTransferMsg{}, NewAcceptTransferHandler(auth, ctrl))
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth, initConfAdmin))
}

// RegisterQuery will register assets as "/assets" and transfers as
// "/transfers", together with their indexes.
func RegisterQuery(qr ledger.QueryRouter) {
	NewAssetTemplate().Register("assets", qr)
	NewTransferTemplate().Register("transfers", qr)
}

// NewConfigHandler returns the handler of UpdateConfigurationMsg.
func NewConfigHandler(auth x.Authenticator, initConfAdmin func(ledger.ReadOnlyKVStore) (ledger.Address, error)) ledger.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(ConfigurationName, &conf, auth, initConfAdmin)
}

// loadTransfer returns the transfer a choice is exercised on, after
// checking that the controller submitted the transaction.
func loadTransfer(ctx ledger.Context, db ledger.ReadOnlyKVStore, auth x.Authenticator, ctrl Controller, id contract.ID, controller func(*AssetTransfer) ledger.Address) (*AssetTransfer, error) {
	transfer, err := ctrl.LoadTransfer(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load transfer")
	}
	if err := x.RequireAllAddresses(ctx, auth, controller(transfer)); err != nil {
		return nil, err
	}
	return transfer, nil
}

func transferOwner(t *AssetTransfer) ledger.Address     { return t.Asset.Owner }
func transferRecipient(t *AssetTransfer) ledger.Address { return t.Recipient }

// authority of a choice exercised on a transfer.
func choiceAuthority(ctx ledger.Context, auth x.Authenticator, t *AssetTransfer) contract.Authority {
	return contract.NewAuthority(x.GetAddresses(ctx, auth), t.Signatories())
}

// CancelTransferHandler returns the amount of a transfer to the asset owner.
type CancelTransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CancelTransferHandler{}

func NewCancelTransferHandler(auth x.Authenticator, ctrl Controller) CancelTransferHandler {
	return CancelTransferHandler{auth: auth, ctrl: ctrl}
}

func (h CancelTransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h CancelTransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, transfer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := choiceAuthority(ctx, h.auth, transfer)
	if err := h.ctrl.transfers.Archive(ctx, db, auth, msg.TransferID); err != nil {
		return nil, errors.Wrap(err, "archive transfer")
	}
	id, err := h.ctrl.Deposit(ctx, db, auth, transfer.Asset.Type, transfer.Asset.Owner, transfer.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "transfer cancelled"}, nil
}

func (h CancelTransferHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CancelTransferMsg, *AssetTransfer, error) {
	var msg CancelTransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	transfer, err := loadTransfer(ctx, db, h.auth, h.ctrl, msg.TransferID, transferOwner)
	if err != nil {
		return nil, nil, err
	}
	return &msg, transfer, nil
}

// RejectTransferHandler sends a transfer back to its sender. The rejecting
// party never holds the amount.
type RejectTransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = RejectTransferHandler{}

func NewRejectTransferHandler(auth x.Authenticator, ctrl Controller) RejectTransferHandler {
	return RejectTransferHandler{auth: auth, ctrl: ctrl}
}

func (h RejectTransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h RejectTransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, transfer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := choiceAuthority(ctx, h.auth, transfer)
	if err := h.ctrl.transfers.Archive(ctx, db, auth, msg.TransferID); err != nil {
		return nil, errors.Wrap(err, "archive transfer")
	}
	id, err := h.ctrl.transfers.Create(ctx, db, auth, transfer.Reversed())
	if err != nil {
		return nil, errors.Wrap(err, "create reversed transfer")
	}
	return &ledger.DeliverResult{Data: id, Log: "transfer rejected"}, nil
}

func (h RejectTransferHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*RejectTransferMsg, *AssetTransfer, error) {
	var msg RejectTransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	transfer, err := loadTransfer(ctx, db, h.auth, h.ctrl, msg.TransferID, transferRecipient)
	if err != nil {
		return nil, nil, err
	}
	return &msg, transfer, nil
}

// AcceptTransferHandler deposits a transfer into the recipient's position.
type AcceptTransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = AcceptTransferHandler{}

func NewAcceptTransferHandler(auth x.Authenticator, ctrl Controller) AcceptTransferHandler {
	return AcceptTransferHandler{auth: auth, ctrl: ctrl}
}

func (h AcceptTransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h AcceptTransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, transfer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	auth := choiceAuthority(ctx, h.auth, transfer)
	if err := h.ctrl.transfers.Archive(ctx, db, auth, msg.TransferID); err != nil {
		return nil, errors.Wrap(err, "archive transfer")
	}
	id, err := h.ctrl.Deposit(ctx, db, auth, transfer.Asset.Type, transfer.Recipient, transfer.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: id, Log: "transfer accepted"}, nil
}

func (h AcceptTransferHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*AcceptTransferMsg, *AssetTransfer, error) {
	var msg AcceptTransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	transfer, err := loadTransfer(ctx, db, h.auth, h.ctrl, msg.TransferID, transferRecipient)
	if err != nil {
		return nil, nil, err
	}
	if !transfer.Asset.Type.Fungible {
		id, _, err := h.ctrl.Position(db, transfer.Asset.Type, transfer.Recipient)
		if err != nil {
			return nil, nil, err
		}
		if id != nil {
			return nil, nil, errors.Wrapf(ErrDuplicateNonFungibleHolding, "%s already holds %s", transfer.Recipient, transfer.Asset.Type.Symbol)
		}
	}
	return &msg, transfer, nil
}
