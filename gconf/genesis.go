package gconf

import (
	"sort"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Initializer fulfils the ledger.Initializer interface to load the
// configuration of every registered package from the "conf" section of the
// genesis file. A package without a genesis entry is skipped and keeps
// using its defaults.
type Initializer struct {
	confs map[string]func() Configuration
}

var _ ledger.Initializer = (*Initializer)(nil)

// NewInitializer returns an Initializer with no packages registered.
func NewInitializer() *Initializer {
	return &Initializer{confs: make(map[string]func() Configuration)}
}

// Register declares the configuration type of a package. Registering the
// same package twice panics.
func (i *Initializer) Register(pkg string, newConf func() Configuration) *Initializer {
	if _, ok := i.confs[pkg]; ok {
		panic("configuration already registered: " + pkg)
	}
	i.confs[pkg] = newConf
	return i
}

// FromGenesis will parse the configurations from genesis and save them to
// the database. A configuration for a package that was not registered is
// rejected.
func (i *Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var confOptions ledger.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}

	pkgs := make([]string, 0, len(confOptions))
	for pkg := range confOptions {
		if _, ok := i.confs[pkg]; !ok {
			return errors.Wrapf(errors.ErrInput, "unknown configuration package %q", pkg)
		}
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		if err := InitConfig(db, opts, pkg, i.confs[pkg]()); err != nil {
			return err
		}
	}
	return nil
}
