package app

import (
	"context"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIApplication exposes a Ledger to a tendermint node. Blocks are driven
// by the consensus engine instead of one block per submission.
type ABCIApplication struct {
	abci.BaseApplication

	ledger  *Ledger
	decoder ledger.TxDecoder
	debug   bool

	// blockCtx is guarded by the ledger lock.
	blockCtx ledger.Context
}

var _ abci.Application = (*ABCIApplication)(nil)

// NewABCIApplication wraps the ledger. When debug is set, error messages of
// failed transactions are returned in full.
func NewABCIApplication(l *Ledger, decoder ledger.TxDecoder, debug bool) *ABCIApplication {
	return &ABCIApplication{
		ledger:   l,
		decoder:  decoder,
		debug:    debug,
		blockCtx: context.Background(),
	}
}

// Info implements abci.Application. It returns the height and hash of the
// last committed state.
func (a *ABCIApplication) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := a.ledger.store.CommitInfo()
	if err != nil {
		a.ledger.logger.Error("commit info", "err", err)
		return abci.ResponseInfo{Data: a.ledger.name}
	}
	a.ledger.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             a.ledger.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// InitChain implements abci.Application. A genesis that cannot be loaded
// leaves the node unusable so it panics.
func (a *ABCIApplication) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	a.ledger.mu.Lock()
	defer a.ledger.mu.Unlock()

	if err := a.ledger.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements abci.Application. It sets up the block context.
func (a *ABCIApplication) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.ledger.mu.Lock()
	defer a.ledger.mu.Unlock()

	a.blockCtx = a.ledger.blockContext(context.Background(), req.Header.Height, req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// CheckTx implements abci.Application.
func (a *ABCIApplication) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		code, log := errors.ABCIInfo(err, a.debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}

	a.ledger.mu.Lock()
	defer a.ledger.mu.Unlock()

	ctx := ledger.WithLogInfo(a.blockCtx, "call", "check_tx", "path", ledger.GetPath(tx))
	res, err := a.ledger.checkTx(ctx, tx)
	if err != nil {
		code, log := errors.ABCIInfo(err, a.debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log}
}

// DeliverTx implements abci.Application.
func (a *ABCIApplication) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		code, log := errors.ABCIInfo(err, a.debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}

	a.ledger.mu.Lock()
	defer a.ledger.mu.Unlock()

	ctx := ledger.WithLogInfo(a.blockCtx, "call", "deliver_tx", "path", ledger.GetPath(tx))
	res, err := a.ledger.deliverTx(ctx, tx)
	if err != nil {
		code, log := errors.ABCIInfo(err, a.debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log}
}

/*
Query gets data from the committed state.

Path may be "/<bucket>", or "/<bucket>/<index>" and may be followed by
"?prefix" to make a prefix query. Key and Value of the response are always
serialized ResultSet objects of the same length.
*/
func (a *ABCIApplication) Query(req abci.RequestQuery) abci.ResponseQuery {
	models, err := a.ledger.Query(req.Path, req.Data)
	if err != nil {
		return a.queryError(err)
	}
	var res abci.ResponseQuery
	res.Height = a.ledger.Height()
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return a.queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return a.queryError(err)
	}
	return res
}

func (a *ABCIApplication) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, a.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit implements abci.Application.
func (a *ABCIApplication) Commit() abci.ResponseCommit {
	id, err := a.ledger.Commit()
	if err != nil {
		// The node cannot proceed with a state it failed to persist.
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

// loadTx calls the decoder, and capture any panics
func (a *ABCIApplication) loadTx(raw []byte) (tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	return a.decoder(raw)
}
