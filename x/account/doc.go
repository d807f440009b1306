/*
Package account implements asset holding accounts.

An AssetHoldingAccount is the agreement between an issuer and an owner that
the owner may hold assets of a given type. Accounts are the entry point of
every movement of assets: the issuer airdrops into them and the owner
creates transfers out of them.

Binding a new party to an account takes two steps. An existing account
invites the party with an AssetHoldingAccountProposal, and the account is
only created once the invited party accepts it.
*/
package account
