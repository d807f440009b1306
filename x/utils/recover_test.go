package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()
	tx := &ledgertest.Tx{}

	// Panic handler panics. Test the test tool.
	require.Panics(t, func() { _, _ = h.Check(ctx, s, tx) })
	require.Panics(t, func() { _, _ = h.Deliver(ctx, s, tx) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, tx, h)
	require.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, tx, h)
	require.True(t, errors.ErrPanic.Is(err))
}

type panicHandler struct{}

var _ ledger.Handler = panicHandler{}

func (p panicHandler) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	panic("deliver panic")
}
