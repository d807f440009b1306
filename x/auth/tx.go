package auth

import (
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var isPartyName = regexp.MustCompile(`^[a-zA-Z0-9_\-.@]{1,64}$`).MatchString

// PartyTx represents a transaction that is submitted on behalf of a list of
// named parties. The names are asserted by the submitter.
type PartyTx interface {
	ledger.Tx
	GetParties() []string
}

// ValidateParty returns an error if the name cannot identify a party.
func ValidateParty(name string) error {
	if !isPartyName(name) {
		return errors.Wrapf(errors.ErrInput, "party name %q", name)
	}
	return nil
}

// PartyConditions converts the names of the parties the transaction is
// submitted by into their conditions. Names are validated and a name
// repeated in the list is used once. At least one party is required.
func PartyConditions(tx PartyTx) ([]ledger.Condition, error) {
	names := tx.GetParties()
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no submitting party")
	}
	seen := make(map[string]struct{}, len(names))
	conds := make([]ledger.Condition, 0, len(names))
	for _, n := range names {
		if err := ValidateParty(n); err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		conds = append(conds, ledger.PartyCondition(n))
	}
	return conds, nil
}
