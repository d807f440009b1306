/*
Package handlers implements the HTTP gateway of the asset ledger. Every
choice is a POST request naming the parties it is submitted on behalf of.
Reads are made on behalf of a single party and only return records that
party is a signatory or an observer of.
*/
package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/labstack/echo/v4"
)

// Ledger is the node the gateway submits to.
type Ledger interface {
	Submit(ctx ledger.Context, tx ledger.Tx) (*ledger.DeliverResult, error)
	View(fn func(db ledger.ReadOnlyKVStore) error) error
	ChainID() string
	Height() int64
}

var _ Ledger = (*app.Ledger)(nil)

// Server exposes a ledger over HTTP.
type Server struct {
	Ledger Ledger
	// Debug exposes the full error messages of failed requests.
	Debug bool

	parties directory
}

// Register adds all routes to the echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = &requestValidator{validator: validator.New()}
	e.HTTPErrorHandler = s.errorHandler

	e.GET("/info", s.Info)

	v1 := e.Group("/v1")
	v1.POST("/accounts", s.CreateAccount)
	v1.POST("/accounts/:id/invite", s.Invite)
	v1.POST("/accounts/:id/airdrop", s.Airdrop)
	v1.POST("/accounts/:id/transfers", s.CreateTransfer)
	v1.POST("/proposals/:id/accept", s.AcceptProposal)
	v1.POST("/proposals/:id/reject", s.RejectProposal)
	v1.POST("/transfers/:id/accept", s.AcceptTransfer)
	v1.POST("/transfers/:id/reject", s.RejectTransfer)
	v1.POST("/transfers/:id/cancel", s.CancelTransfer)
	v1.POST("/configuration", s.UpdateConfiguration)

	v1.GET("/accounts/key", s.AccountByKey)
	v1.GET("/assets/key", s.AssetByKey)
	v1.GET("/accounts/:id", s.GetAccount)
	v1.GET("/proposals/:id", s.GetProposal)
	v1.GET("/transfers/:id", s.GetTransfer)
	v1.GET("/parties/:party/accounts", s.PartyAccounts)
	v1.GET("/parties/:party/assets", s.PartyAssets)
	v1.GET("/parties/:party/transfers", s.PartyTransfers)
	v1.GET("/parties/:party/proposals", s.PartyProposals)
}

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Info returns the chain id and the committed height.
func (s *Server) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"chain_id": s.Ledger.ChainID(),
		"height":   s.Ledger.Height(),
	})
}

type submitRequest struct {
	Parties []string `json:"parties" validate:"required,min=1,dive,required"`
}

type createAccountRequest struct {
	Parties []string                    `json:"parties" validate:"required,min=1,dive,required"`
	Account account.AssetHoldingAccount `json:"account" validate:"required"`
}

type inviteRequest struct {
	Parties   []string `json:"parties" validate:"required,min=1,dive,required"`
	Recipient string   `json:"recipient" validate:"required"`
}

type airdropRequest struct {
	Parties []string      `json:"parties" validate:"required,min=1,dive,required"`
	Amount  amount.Amount `json:"amount"`
}

type transferRequest struct {
	Parties   []string      `json:"parties" validate:"required,min=1,dive,required"`
	Recipient string        `json:"recipient" validate:"required"`
	Amount    amount.Amount `json:"amount"`
}

type configurationRequest struct {
	Parties []string             `json:"parties" validate:"required,min=1,dive,required"`
	Patch   *asset.Configuration `json:"patch" validate:"required"`
}

// submitResponse is returned for every successful choice. ID is the record
// the choice created, if any.
type submitResponse struct {
	ID     contract.ID `json:"id,omitempty"`
	Log    string      `json:"log"`
	Height int64       `json:"height"`
}

// bind decodes and validates the request body.
func bind(c echo.Context, body interface{}) error {
	if err := c.Bind(body); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode request body")
	}
	return c.Validate(body)
}

func pathID(c echo.Context) (contract.ID, error) {
	return contract.ParseID(c.Param("id"))
}

func (s *Server) submit(c echo.Context, msg ledger.Msg, parties []string) error {
	s.parties.learnAll(parties)
	res, err := s.Ledger.Submit(c.Request().Context(), app.NewTx(msg, parties...))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, submitResponse{
		ID:     res.Data,
		Log:    res.Log,
		Height: s.Ledger.Height(),
	})
}

// CreateAccount submits a new account. Both the issuer and the owner must be
// among the parties.
func (s *Server) CreateAccount(c echo.Context) error {
	var body createAccountRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	return s.submit(c, &account.CreateAccountMsg{Account: body.Account}, body.Parties)
}

func (s *Server) Invite(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body inviteRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	recipient, err := s.parties.parse(body.Recipient)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	return s.submit(c, &account.InviteMsg{AccountID: id, Recipient: recipient}, body.Parties)
}

func (s *Server) Airdrop(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body airdropRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	return s.submit(c, &account.AirdropMsg{AccountID: id, Amount: body.Amount}, body.Parties)
}

func (s *Server) CreateTransfer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body transferRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	recipient, err := s.parties.parse(body.Recipient)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	msg := &account.CreateTransferMsg{
		AccountID: id,
		Recipient: recipient,
		Amount:    body.Amount,
	}
	return s.submit(c, msg, body.Parties)
}

// choice submits a message that only carries the ID taken from the path.
func (s *Server) choice(c echo.Context, newMsg func(contract.ID) ledger.Msg) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body submitRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	return s.submit(c, newMsg(id), body.Parties)
}

func (s *Server) AcceptProposal(c echo.Context) error {
	return s.choice(c, func(id contract.ID) ledger.Msg {
		return &account.AcceptProposalMsg{ProposalID: id}
	})
}

func (s *Server) RejectProposal(c echo.Context) error {
	return s.choice(c, func(id contract.ID) ledger.Msg {
		return &account.RejectProposalMsg{ProposalID: id}
	})
}

func (s *Server) AcceptTransfer(c echo.Context) error {
	return s.choice(c, func(id contract.ID) ledger.Msg {
		return &asset.AcceptTransferMsg{TransferID: id}
	})
}

func (s *Server) RejectTransfer(c echo.Context) error {
	return s.choice(c, func(id contract.ID) ledger.Msg {
		return &asset.RejectTransferMsg{TransferID: id}
	})
}

func (s *Server) CancelTransfer(c echo.Context) error {
	return s.choice(c, func(id contract.ID) ledger.Msg {
		return &asset.CancelTransferMsg{TransferID: id}
	})
}

func (s *Server) UpdateConfiguration(c echo.Context) error {
	var body configurationRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	return s.submit(c, &asset.UpdateConfigurationMsg{Patch: body.Patch}, body.Parties)
}
