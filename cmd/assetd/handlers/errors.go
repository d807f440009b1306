package handlers

import (
	"net/http"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request. Code is the ABCI code
// of the ledger error.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

// statuses maps ledger errors to HTTP statuses. The first matching entry
// wins.
var statuses = []struct {
	err    *errors.Error
	status int
}{
	{errors.ErrNotFound, http.StatusNotFound},
	{errors.ErrArchived, http.StatusGone},
	{errors.ErrUnauthorized, http.StatusForbidden},
	{errors.ErrDuplicate, http.StatusConflict},
	{errors.ErrInput, http.StatusBadRequest},
	{errors.ErrMsg, http.StatusBadRequest},
	{errors.ErrModel, http.StatusBadRequest},
	{errors.ErrEmpty, http.StatusBadRequest},
	{errors.ErrAmount, http.StatusBadRequest},
	{errors.ErrState, http.StatusConflict},
	{asset.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{asset.ErrDuplicateNonFungibleHolding, http.StatusUnprocessableEntity},
	{account.ErrAirdropNotAccepted, http.StatusUnprocessableEntity},
	{account.ErrInvalidNonFungibleAmount, http.StatusUnprocessableEntity},
	{account.ErrNonFungibleSlotOccupied, http.StatusUnprocessableEntity},
}

func httpStatus(err error) int {
	for _, s := range statuses {
		if s.err.Is(err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		// Routing errors, raised by echo itself.
		_ = c.JSON(he.Code, ErrorResponse{
			Error:   true,
			Code:    routingCode(he),
			Message: http.StatusText(he.Code),
		})
		return
	}

	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	code, msg := errors.ABCIInfo(err, s.Debug)
	_ = c.JSON(status, ErrorResponse{
		Error:   true,
		Code:    code,
		Message: msg,
	})
}

// routingCode returns the ledger error code closest to a status echo
// responded with.
func routingCode(he *echo.HTTPError) uint32 {
	switch {
	case he.Code == http.StatusNotFound:
		return errors.ErrNotFound.ABCICode()
	case he.Code == http.StatusUnauthorized, he.Code == http.StatusForbidden:
		return errors.ErrUnauthorized.ABCICode()
	case he.Code >= 400 && he.Code < 500:
		return errors.ErrInput.ABCICode()
	}
	code, _ := errors.ABCIInfo(he, false)
	return code
}
