package errors

import (
	"fmt"
	"strings"
)

// Append combines errors into one. Nil values are dropped. If no error is
// left, nil is returned. If a single error is left, it is returned unchanged.
//
// The ABCI code and the Cause of a combined error are those of the first
// error, consistent with a fail-fast reading.
func Append(errs ...error) error {
	var all []error
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			all = append(all, m.errors...)
			continue
		}
		all = append(all, err)
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return &multiErr{errors: all}
}

type multiErr struct {
	errors []error
}

func (me *multiErr) Error() string {
	points := make([]string, len(me.errors))
	for i, err := range me.errors {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n",
		len(me.errors), strings.Join(points, "\n\t"))
}

func (me *multiErr) Cause() error {
	return me.errors[0]
}

// Contains returns true if any of the combined errors is of given kind.
func (me *multiErr) Contains(kind *Error) bool {
	for _, err := range me.errors {
		if kind.Is(err) {
			return true
		}
	}
	return false
}
