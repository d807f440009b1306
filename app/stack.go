package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/contract"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x/account"
	"github.com/iov-one/ledger/x/asset"
	"github.com/iov-one/ledger/x/auth"
	"github.com/iov-one/ledger/x/utils"
)

// Chain returns the decorators every transaction goes through, outermost
// first.
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		auth.NewDecorator(),
		// failed checks leave the check state untouched
		utils.NewSavepoint().OnCheck(),
	)
}

// Routes returns a router with the routes of all extensions. The asset
// configuration can be created by confAdmin as long as none exists. A nil
// confAdmin leaves the configuration to genesis.
func Routes(confAdmin ledger.Address) *Router {
	var initConfAdmin func(ledger.ReadOnlyKVStore) (ledger.Address, error)
	if confAdmin != nil {
		initConfAdmin = gconf.StaticAdmin(confAdmin)
	}

	ctrl := asset.NewController()
	authFn := auth.Authenticate{}

	r := NewRouter()
	asset.RegisterRoutes(r, authFn, ctrl, initConfAdmin)
	account.RegisterRoutes(r, authFn, ctrl)
	return r
}

// Stack wires the decorator chain with the router.
func Stack(confAdmin ledger.Address) ledger.Handler {
	return Chain().WithHandler(Routes(confAdmin))
}

// QueryRouter returns a query router serving every stored record.
func QueryRouter() ledger.QueryRouter {
	qr := ledger.NewQueryRouter()
	qr.RegisterAll(
		asset.RegisterQuery,
		account.RegisterQuery,
		contract.RegisterQuery,
	)
	return qr
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() ledger.Initializer {
	return ledger.ChainInitializers(
		gconf.NewInitializer().Register(asset.ConfigurationName, asset.NewConfiguration),
		account.NewInitializer(asset.NewController()),
	)
}

// NewApplication creates a ledger with the full stack on top of the given
// store.
func NewApplication(name string, store ledger.CommitKVStore, confAdmin ledger.Address) (*Ledger, error) {
	l, err := NewLedger(name, store, Stack(confAdmin), QueryRouter())
	if err != nil {
		return nil, err
	}
	return l.WithInit(Initializers()), nil
}
