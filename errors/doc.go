/*
Package errors implements the error taxonomy of the ledger.

Every failure that crosses a package boundary should wrap one of the root
errors declared here, or a root error registered by an extension with
Register. Each root error carries a unique code that identifies the kind of
failure to clients (ABCI response code, HTTP gateway payload).

Wrap at the point of creation to attach a stacktrace:

	return errors.Wrap(errors.ErrNotFound, "asset transfer")

Test the kind of an error with Is, it unwraps the whole chain:

	if errors.ErrDuplicate.Is(err) { ... }

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
