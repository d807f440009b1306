package account

import (
	"testing"

	"github.com/iov-one/ledger/amount"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/x/asset"
)

func TestIssuerAirdropsIntoOwnAccount(t *testing.T) {
	e := newEnv(t)
	// Not airdroppable, the issuer can still mint to itself.
	acct := e.openAccount(usd, issuerCond, false, false)

	e.mustSubmit(&AirdropMsg{AccountID: acct, Amount: amount.New(10, 0)}, issuerCond)
	e.mustSubmit(&AirdropMsg{AccountID: acct, Amount: amount.New(5, 0)}, issuerCond)

	held := e.positions(issuer)
	if len(held) != 1 {
		t.Fatalf("want a single position, got %d", len(held))
	}
	assert.Equal(t, amount.New(15, 0), held[0].Amount)
}

func TestAirdropIntoThirdPartyAccountNotAccepted(t *testing.T) {
	e := newEnv(t)
	acct := e.openAccount(usd, aliceCond, false, false)

	_, err := e.submit(&AirdropMsg{AccountID: acct, Amount: amount.New(10, 0)}, issuerCond)
	assert.IsErr(t, ErrAirdropNotAccepted, err)
	assert.Equal(t, 0, len(e.positions(alice)))
}

func TestTransferAccepted(t *testing.T) {
	e := newEnv(t)
	acct := e.openAccount(usd, aliceCond, true, false)
	e.mustSubmit(&AirdropMsg{AccountID: acct, Amount: amount.New(15, 0)}, issuerCond)

	tr := e.mustSubmit(&CreateTransferMsg{AccountID: acct, Recipient: bob, Amount: amount.New(5, 0)}, aliceCond)
	assert.Equal(t, amount.New(10, 0), e.balance(usd, alice))
	assert.Equal(t, amount.Zero(), e.balance(usd, bob))

	e.mustSubmit(&asset.AcceptTransferMsg{TransferID: tr}, bobCond)
	assert.Equal(t, amount.New(10, 0), e.balance(usd, alice))
	assert.Equal(t, amount.New(5, 0), e.balance(usd, bob))
	assert.Equal(t, amount.New(15, 0), e.total(usd, alice, bob))
}

func TestAcceptSecondNonFungibleUnit(t *testing.T) {
	e := newEnv(t)
	aliceAcct := e.openAccount(art, aliceCond, true, false)
	bobAcct := e.openAccount(art, bobCond, true, false)
	e.mustSubmit(&AirdropMsg{AccountID: aliceAcct, Amount: amount.One()}, issuerCond)
	e.mustSubmit(&AirdropMsg{AccountID: bobAcct, Amount: amount.One()}, issuerCond)

	tr := e.mustSubmit(&CreateTransferMsg{AccountID: aliceAcct, Recipient: bob, Amount: amount.One()}, aliceCond)
	_, err := e.submit(&asset.AcceptTransferMsg{TransferID: tr}, bobCond)
	assert.IsErr(t, asset.ErrDuplicateNonFungibleHolding, err)

	// Nothing changed, the transfer can still be cancelled.
	assert.Equal(t, amount.One(), e.balance(art, bob))
	e.mustSubmit(&asset.CancelTransferMsg{TransferID: tr}, aliceCond)
	assert.Equal(t, amount.One(), e.balance(art, alice))
}

func TestTransferRejectedThenAcceptedBack(t *testing.T) {
	e := newEnv(t)
	acct := e.openAccount(usd, aliceCond, true, false)
	e.mustSubmit(&AirdropMsg{AccountID: acct, Amount: amount.New(15, 0)}, issuerCond)

	tr := e.mustSubmit(&CreateTransferMsg{AccountID: acct, Recipient: bob, Amount: amount.New(5, 0)}, aliceCond)
	back := e.mustSubmit(&asset.RejectTransferMsg{TransferID: tr}, bobCond)

	// The rejecting party never held the amount.
	assert.Equal(t, amount.Zero(), e.balance(usd, bob))
	assert.Equal(t, 0, len(e.positions(bob)))
	assert.Equal(t, amount.New(15, 0), e.total(usd, alice, bob))

	e.mustSubmit(&asset.AcceptTransferMsg{TransferID: back}, aliceCond)
	assert.Equal(t, amount.New(15, 0), e.balance(usd, alice))
	assert.Equal(t, amount.Zero(), e.balance(usd, bob))
	assert.Equal(t, 0, len(e.pending(alice)))
}

func TestConservation(t *testing.T) {
	e := newEnv(t)
	aliceAcct := e.openAccount(usd, aliceCond, true, false)
	bobAcct := e.openAccount(usd, bobCond, true, false)
	e.mustSubmit(&AirdropMsg{AccountID: aliceAcct, Amount: amount.New(20, 0)}, issuerCond)
	e.mustSubmit(&AirdropMsg{AccountID: bobAcct, Amount: amount.New(1, 250000000)}, issuerCond)
	minted := amount.New(21, 250000000)

	t1 := e.mustSubmit(&CreateTransferMsg{AccountID: aliceAcct, Recipient: bob, Amount: amount.New(7, 500000000)}, aliceCond)
	assert.Equal(t, minted, e.total(usd, alice, bob))
	t2 := e.mustSubmit(&CreateTransferMsg{AccountID: bobAcct, Recipient: alice, Amount: amount.New(1, 250000000)}, bobCond)
	assert.Equal(t, minted, e.total(usd, alice, bob))
	t3 := e.mustSubmit(&asset.RejectTransferMsg{TransferID: t1}, bobCond)
	assert.Equal(t, minted, e.total(usd, alice, bob))
	e.mustSubmit(&asset.AcceptTransferMsg{TransferID: t2}, aliceCond)
	assert.Equal(t, minted, e.total(usd, alice, bob))
	e.mustSubmit(&asset.CancelTransferMsg{TransferID: t3}, aliceCond)
	assert.Equal(t, minted, e.total(usd, alice, bob))

	_, err := e.submit(&CreateTransferMsg{AccountID: aliceAcct, Recipient: bob, Amount: amount.New(100, 0)}, aliceCond)
	assert.IsErr(t, asset.ErrInsufficientFunds, err)
	assert.Equal(t, minted, e.total(usd, alice, bob))

	assert.Equal(t, minted, e.balance(usd, alice))
	assert.Equal(t, 0, len(e.positions(bob)))
}

func TestFailedChoiceWritesNothing(t *testing.T) {
	e := newEnv(t)
	acct := e.openAccount(usd, aliceCond, true, false)

	// Alice is invited to an account she already holds. Accepting archives
	// the proposal before the account key collides, and that archive must
	// not survive.
	proposal := e.mustSubmit(&InviteMsg{AccountID: acct, Recipient: alice}, issuerCond)
	_, err := e.submit(&AcceptProposalMsg{ProposalID: proposal}, aliceCond)
	assert.IsErr(t, errors.ErrDuplicate, err)

	var p AssetHoldingAccountProposal
	assert.Nil(t, e.proposals.Fetch(e.db, proposal, &p))
	e.mustSubmit(&RejectProposalMsg{ProposalID: proposal}, aliceCond)
	assert.IsErr(t, errors.ErrArchived, e.proposals.Fetch(e.db, proposal, &p))
}
