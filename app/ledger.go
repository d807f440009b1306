package app

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger is a single node holding the asset state. Every submitted choice
// is executed atomically: it either applies all of its writes or none.
// Submissions are serialized, queries read the last committed state.
type Ledger struct {
	mu sync.RWMutex

	name        string
	store       *CommitStore
	handler     ledger.Handler
	queryRouter ledger.QueryRouter
	initializer ledger.Initializer
	logger      log.Logger
	now         func() time.Time

	chainID string
	// height of the block being built, zero until the first submission
	height int64
}

// NewLedger creates a ledger on top of the given store. The latest
// committed version is loaded and, when present, the chain id with it.
func NewLedger(name string, store ledger.CommitKVStore, handler ledger.Handler, qr ledger.QueryRouter) (*Ledger, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.ReadStore())
	if err != nil {
		return nil, err
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	return &Ledger{
		name:        name,
		store:       cs,
		handler:     handler,
		queryRouter: qr,
		logger:      log.NewNopLogger(),
		now:         time.Now,
		chainID:     chainID,
		height:      info.Version,
	}, nil
}

// WithInit sets the initializer used to load the genesis state.
func (l *Ledger) WithInit(init ledger.Initializer) *Ledger {
	l.initializer = init
	return l
}

// WithLogger sets the logger handed to every handler.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger.With("module", l.name)
	return l
}

// WithClock replaces the block time source.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// ChainID returns the chain id set at genesis, empty if not initialized.
func (l *Ledger) ChainID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chainID
}

// Height returns the height of the last committed state.
func (l *Ledger) Height() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

// InitChain loads the genesis state and commits it as the first version.
func (l *Ledger) InitChain(chainID string, appState []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.initChain(chainID, appState); err != nil {
		return err
	}
	_, err := l.commit()
	return err
}

func (l *Ledger) initChain(chainID string, appState []byte) error {
	if l.chainID != "" {
		return errors.Wrapf(errors.ErrState, "already initialized as %q", l.chainID)
	}

	var opts ledger.Options
	if len(appState) > 0 {
		if err := json.Unmarshal(appState, &opts); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}

	// Genesis is applied on a cache so that a broken state file leaves
	// nothing behind.
	cache := l.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	if l.initializer != nil {
		if err := l.initializer.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	l.chainID = chainID
	l.logger.Info("genesis loaded", "chainID", chainID)
	return nil
}

// Submit executes a single transaction as its own block. The transaction
// state changes are committed only if it succeeds.
func (l *Ledger) Submit(ctx context.Context, tx ledger.Tx) (*ledger.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}

	bctx := l.blockContext(ctx, l.height+1, l.now())
	res, err := l.deliverTx(bctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := l.commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return res, nil
}

// Check runs the validation of a transaction against the last committed
// state. Nothing is written.
func (l *Ledger) Check(ctx context.Context, tx ledger.Tx) (*ledger.CheckResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}

	bctx := l.blockContext(ctx, l.height+1, l.now())
	cache := l.store.committed.CacheWrap()
	defer cache.Discard()
	return l.handler.Check(bctx, cache, tx)
}

// Query executes a read only query over the last committed state. The
// path may carry a "?prefix" or "?range" modifier.
func (l *Ledger) Query(path string, data []byte) ([]ledger.Model, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	path, mod := splitPath(path)
	qh := l.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	return qh.Query(l.store.ReadStore(), mod, data)
}

// View calls fn with the last committed state. Anything fn writes is
// discarded.
func (l *Ledger) View(fn func(db ledger.ReadOnlyKVStore) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(l.store.ReadStore())
}

// Commit flushes the pending block state and returns the new version.
func (l *Ledger) Commit() (ledger.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit()
}

func (l *Ledger) commit() (ledger.CommitID, error) {
	res, err := l.store.Commit()
	if err != nil {
		l.logger.Error("commit failed", "err", err)
		return res, err
	}
	l.height = res.Version
	l.logger.Debug("commit", "height", res.Version, "hash", res.Hash)
	return res, nil
}

// deliverTx runs the handler on a cache of the block state. The cache is
// written only when the handler succeeds.
func (l *Ledger) deliverTx(ctx ledger.Context, tx ledger.Tx) (res *ledger.DeliverResult, err error) {
	defer errors.Recover(&err)

	cache := l.store.DeliverStore().CacheWrap()
	res, err = l.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return res, nil
}

// checkTx runs the handler on a cache of the check state. Successful checks
// are kept until the next commit, so that subsequent checks in the same
// block see them.
func (l *Ledger) checkTx(ctx ledger.Context, tx ledger.Tx) (res *ledger.CheckResult, err error) {
	defer errors.Recover(&err)

	cache := l.store.CheckStore().CacheWrap()
	res, err = l.handler.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return res, nil
}

func (l *Ledger) blockContext(ctx context.Context, height int64, now time.Time) ledger.Context {
	ctx = ledger.WithHeight(ctx, height)
	ctx = ledger.WithBlockTime(ctx, now)
	ctx = ledger.WithChainID(ctx, l.chainID)
	return ledger.WithLogger(ctx, l.logger)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
