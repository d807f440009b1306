package asset

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

// ConfigurationName is the gconf package name of the configuration.
const ConfigurationName = "asset"

// Zero transfer policies.
const (
	ZeroTransfersAllow  = "allow"
	ZeroTransfersReject = "reject"
)

// Configuration is the in-store configuration of this extension.
type Configuration struct {
	// Owner is the party that can update the configuration.
	Owner ledger.Address `json:"owner"`
	// ZeroTransfers is the zero amount transfer policy. Empty means allow.
	ZeroTransfers string `json:"zero_transfers"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *Configuration) GetOwner() ledger.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	switch c.ZeroTransfers {
	case "", ZeroTransfersAllow, ZeroTransfersReject:
	default:
		return errors.Wrapf(errors.ErrInput, "zero transfers policy %q", c.ZeroTransfers)
	}
	return nil
}

// AllowsZeroTransfer returns true unless zero amount transfers are rejected.
func (c *Configuration) AllowsZeroTransfer() bool {
	return c.ZeroTransfers != ZeroTransfersReject
}

// LoadConfiguration returns the stored configuration, or the defaults if
// none was ever saved.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.LoadOrDefault(db, ConfigurationName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// NewConfiguration is used to register the configuration with a gconf
// initializer.
func NewConfiguration() gconf.Configuration {
	return &Configuration{}
}

