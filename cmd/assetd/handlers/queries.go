package handlers

import (
	"net/http"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/labstack/echo/v4"
)

var (
	accounts  = account.NewAccountTemplate()
	proposals = account.NewProposalTemplate()
	assets    = asset.NewAssetTemplate()
	transfers = asset.NewTransferTemplate()
)

// KeyValue is a record together with its contract ID. Parties names the
// signatories and observers of the record whose names are known, keyed by
// address.
type KeyValue struct {
	ID      contract.ID       `json:"id"`
	Value   contract.Record   `json:"value"`
	Parties map[string]string `json:"parties,omitempty"`
}

func (s *Server) keyValue(id contract.ID, r contract.Record) KeyValue {
	return KeyValue{ID: id, Value: r, Parties: s.parties.named(r)}
}

// reader returns the party a read is made on behalf of. It is taken from
// the "party" query parameter.
func (s *Server) reader(c echo.Context) (ledger.Address, error) {
	name := c.QueryParam("party")
	if name == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "party query parameter required")
	}
	return s.parties.learn(name), nil
}

// fetch loads a single record the reader can see.
func (s *Server) fetch(c echo.Context, t contract.Template, dest contract.Record) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	party, err := s.reader(c)
	if err != nil {
		return err
	}
	err = s.Ledger.View(func(db ledger.ReadOnlyKVStore) error {
		return t.FetchAs(db, party, id, dest)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.keyValue(id, dest))
}

func (s *Server) GetAccount(c echo.Context) error {
	return s.fetch(c, accounts, &account.AssetHoldingAccount{})
}

func (s *Server) GetProposal(c echo.Context) error {
	return s.fetch(c, proposals, &account.AssetHoldingAccountProposal{})
}

func (s *Server) GetTransfer(c echo.Context) error {
	return s.fetch(c, transfers, &asset.AssetTransfer{})
}

// list returns the records indexed under the party of the path. Only the
// party itself can list them.
func (s *Server) list(c echo.Context, t contract.Template, index string, dest orm.ModelSlicePtr, values func() []contract.Record) error {
	party := s.parties.learn(c.Param("party"))
	self, err := s.reader(c)
	if err != nil {
		return err
	}
	if !self.Equals(party) {
		return errors.Wrap(errors.ErrUnauthorized, "parties can list only their own records")
	}

	var ids []contract.ID
	err = s.Ledger.View(func(db ledger.ReadOnlyKVStore) error {
		var err error
		ids, err = t.ByIndex(db, index, party, dest)
		return err
	})
	if err != nil {
		return err
	}

	vals := values()
	objects := make([]KeyValue, len(ids))
	for i, id := range ids {
		objects[i] = s.keyValue(id, vals[i])
	}
	return c.JSON(http.StatusOK, struct {
		Objects []KeyValue `json:"objects"`
	}{
		Objects: objects,
	})
}

// PartyAccounts lists the accounts owned by the party.
func (s *Server) PartyAccounts(c echo.Context) error {
	var res []*account.AssetHoldingAccount
	return s.list(c, accounts, "owner", &res, func() []contract.Record {
		out := make([]contract.Record, len(res))
		for i, r := range res {
			out[i] = r
		}
		return out
	})
}

// PartyAssets lists the positions held by the party.
func (s *Server) PartyAssets(c echo.Context) error {
	var res []*asset.Asset
	return s.list(c, assets, "owner", &res, func() []contract.Record {
		out := make([]contract.Record, len(res))
		for i, r := range res {
			out[i] = r
		}
		return out
	})
}

// PartyTransfers lists the transfers waiting for the party to accept or
// reject them.
func (s *Server) PartyTransfers(c echo.Context) error {
	var res []*asset.AssetTransfer
	return s.list(c, transfers, "recipient", &res, func() []contract.Record {
		out := make([]contract.Record, len(res))
		for i, r := range res {
			out[i] = r
		}
		return out
	})
}

// PartyProposals lists the account proposals made to the party.
func (s *Server) PartyProposals(c echo.Context) error {
	var res []*account.AssetHoldingAccountProposal
	return s.list(c, proposals, "recipient", &res, func() []contract.Record {
		out := make([]contract.Record, len(res))
		for i, r := range res {
			out[i] = r
		}
		return out
	})
}

// lookup loads the record with the logical key of the position named by the
// query string. A record the reader cannot see is reported as missing.
func (s *Server) lookup(c echo.Context, t contract.Template, dest contract.Record) error {
	party, err := s.reader(c)
	if err != nil {
		return err
	}
	key, err := s.holdingKey(c)
	if err != nil {
		return err
	}

	var id contract.ID
	err = s.Ledger.View(func(db ledger.ReadOnlyKVStore) error {
		var err error
		id, err = t.LookupByKey(db, key, dest)
		return err
	})
	if err != nil {
		return err
	}
	if id == nil || !contract.CanRead(dest, party) {
		return errors.Wrap(errors.ErrNotFound, "no record with this key")
	}
	return c.JSON(http.StatusOK, s.keyValue(id, dest))
}

// holdingKey builds the logical key of a position from the issuer, symbol,
// fungible, reference and owner query parameters.
func (s *Server) holdingKey(c echo.Context) ([]byte, error) {
	var (
		typ           asset.AssetType
		issuer, owner string
	)
	err := echo.QueryParamsBinder(c).
		MustString("issuer", &issuer).
		MustString("symbol", &typ.Symbol).
		Bool("fungible", &typ.Fungible).
		String("reference", &typ.Reference).
		MustString("owner", &owner).
		BindError()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	if typ.Issuer, err = s.parties.parse(issuer); err != nil {
		return nil, errors.Wrap(err, "issuer")
	}
	ownerAddr, err := s.parties.parse(owner)
	if err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if err := typ.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return asset.HoldingKey(typ, ownerAddr), nil
}

// AccountByKey returns the account of the owner for an asset type.
func (s *Server) AccountByKey(c echo.Context) error {
	return s.lookup(c, accounts, &account.AssetHoldingAccount{})
}

// AssetByKey returns the position of the owner in an asset type.
func (s *Server) AssetByKey(c echo.Context) error {
	return s.lookup(c, assets, &asset.Asset{})
}
