package x

import (
	"github.com/iov-one/ledger/errors"
)

// Validater is any object that can check its own state.
type Validater interface {
	Validate() error
}

// ValidateAll runs Validate on every non nil object and collects all
// failures into a single error.
func ValidateAll(objs ...Validater) error {
	var errs error
	for _, o := range objs {
		if o == nil {
			continue
		}
		errs = errors.Append(errs, o.Validate())
	}
	return errs
}
