/*
Package asset implements asset positions and their transfers.

An Asset is the position an owner holds in an AssetType. It is signed by
both the issuer of the type and the owner, and there is at most one active
Asset per (type, owner). Positions are never changed in place: every
withdrawal or deposit archives the current Asset and creates a new one.

An AssetTransfer carries an amount taken out of the owner's position until
the recipient accepts it, rejects it (which creates a transfer in the
opposite direction) or the owner cancels it.
*/
package asset
