/*
Package ledger defines the interfaces used throughout the asset ledger, such
as storage, transactions, handlers and authorization conditions.

A ledger record ("contract") is never modified in place. Every state
transition is a choice executed by a Handler: it archives zero or more
records and creates zero or more new ones inside a single cache-wrapped
KVStore, so either all of it is committed or nothing is.

Look into this package to get a brief overview of the design decisions made
around interfaces and extension building blocks. Concrete behaviour lives in
the contract, orm, store and x/... packages.
*/
package ledger
