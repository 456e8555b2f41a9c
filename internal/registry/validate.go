package registry

import (
	"fmt"

	"github.com/tellerdesk/teller/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Number      int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [account %d]: %s", e.Invariant, e.Number, e.Description)
}

// Validate enforces 4 invariants on a set of accounts, typically right after
// a snapshot load, before the registry accepts them.
func Validate(accounts []model.Account, capacity int) []ValidationError {
	var errs []ValidationError

	// Invariant 1: registry size within capacity.
	if len(accounts) > capacity {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Description: fmt.Sprintf("%d accounts exceeds capacity %d", len(accounts), capacity),
		})
	}

	seen := make(map[int]bool, len(accounts))
	for _, acct := range accounts {
		// Invariant 2: unique account numbers.
		if seen[acct.Number] {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Number:      acct.Number,
				Description: "duplicate account number",
			})
		}
		seen[acct.Number] = true

		// Invariant 3: non-negative balances.
		if acct.Balance.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Number:      acct.Number,
				Description: fmt.Sprintf("negative balance %s", acct.Balance.StringFixed(2)),
			})
		}

		// Invariant 4: numbering starts at the fixed floor.
		if acct.Number < FirstNumber {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Number:      acct.Number,
				Description: fmt.Sprintf("account number below %d", FirstNumber),
			})
		}
	}

	return errs
}
