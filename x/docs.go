/*
Package x contains the ledger extensions.

Extensions implement the record types and the choices that can be exercised
on them (Handler, Decorator, etc.) and are combined together in the app
package to construct a ledger node.

Every sub-package owns its records and their storage. Extensions that need
to know who submitted a transaction must receive an Authenticator in their
constructor rather than hard-coding x/auth.
*/
package x
