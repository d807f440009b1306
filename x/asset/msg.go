package asset

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
)

var (
	_ ledger.Msg = (*CancelTransferMsg)(nil)
	_ ledger.Msg = (*RejectTransferMsg)(nil)
	_ ledger.Msg = (*AcceptTransferMsg)(nil)
	_ ledger.Msg = (*UpdateConfigurationMsg)(nil)
)

// CancelTransferMsg returns the amount of a transfer to the owner it was
// taken from.
type CancelTransferMsg struct {
	TransferID contract.ID `json:"transfer_id"`
}

func (CancelTransferMsg) Path() string { return "asset/cancel_transfer" }

func (m *CancelTransferMsg) Validate() error {
	return errors.Wrap(m.TransferID.Validate(), "transfer id")
}

func (m *CancelTransferMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *CancelTransferMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// RejectTransferMsg sends a transfer back to the owner it was taken from.
type RejectTransferMsg struct {
	TransferID contract.ID `json:"transfer_id"`
}

func (RejectTransferMsg) Path() string { return "asset/reject_transfer" }

func (m *RejectTransferMsg) Validate() error {
	return errors.Wrap(m.TransferID.Validate(), "transfer id")
}

func (m *RejectTransferMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *RejectTransferMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// AcceptTransferMsg deposits a transfer into the recipient's position.
type AcceptTransferMsg struct {
	TransferID contract.ID `json:"transfer_id"`
}

func (AcceptTransferMsg) Path() string { return "asset/accept_transfer" }

func (m *AcceptTransferMsg) Validate() error {
	return errors.Wrap(m.TransferID.Validate(), "transfer id")
}

func (m *AcceptTransferMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *AcceptTransferMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// UpdateConfigurationMsg patches the configuration. Zero fields are left
// unchanged.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

func (UpdateConfigurationMsg) Path() string { return "asset/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
