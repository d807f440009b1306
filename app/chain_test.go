package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	c1 := &ledgertest.Decorator{}
	c2 := &ledgertest.Decorator{}
	c3 := &ledgertest.Decorator{}
	h := &ledgertest.Handler{}

	var nilDecorator *ledgertest.Decorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nilDecorator,
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(bg, nil, tx)
	require.NoError(t, err)
	ctx := ledger.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, tx)
	require.NoError(t, err)

	require.Equal(t, 2, c1.CallCount())
	require.Equal(t, 2, c2.CallCount())
	require.Equal(t, 2, c3.CallCount())
	require.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = ledger.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	require.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	require.True(t, errors.ErrPanic.Is(err))

	require.Equal(t, 4, c1.CallCount())
	require.Equal(t, 4, c2.CallCount())
	// the panic never reaches further down the stack
	require.Equal(t, 2, c3.CallCount())
	require.Equal(t, 2, h.CallCount())
}

func TestChainAppend(t *testing.T) {
	c1 := &ledgertest.Decorator{}
	c2 := &ledgertest.Decorator{DeliverErr: errors.ErrUnauthorized}
	h := &ledgertest.Handler{}

	base := ChainDecorators(c1)
	stack := base.Chain(c2).WithHandler(h)

	_, err := stack.Deliver(context.Background(), nil, nil)
	require.True(t, errors.ErrUnauthorized.Is(err))
	require.Equal(t, 0, h.CallCount())

	// extending a chain does not alter the original one
	_, err = base.WithHandler(h).Deliver(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, h.CallCount())
}

// panicAtHeight panics on every call made with a block height
// higher than configured.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	if val, _ := ledger.GetHeight(ctx); val >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, store, tx)
}

func (p panicAtHeight) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	if val, _ := ledger.GetHeight(ctx); val >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, store, tx)
}
