// Package registry owns the in-memory account store and its invariants:
// unique sequential numbering, a fixed capacity bound, and non-negative
// balances. AdjustBalance is the only path that changes a balance.
package registry

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tellerdesk/teller/internal/model"
)

// Categorical outcomes of registry operations.
var (
	ErrCapacityExceeded  = errors.New("account capacity exceeded")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
)

// FirstNumber is assigned to the first account ever created. Numbers grow
// sequentially from there and are never reused.
const FirstNumber = 1000

// Registry holds accounts in creation order with a by-number index.
type Registry struct {
	capacity int
	accounts []model.Account
	byNumber map[int]int // account number -> index into accounts
}

// New creates an empty Registry bounded to capacity accounts.
func New(capacity int) *Registry {
	return &Registry{capacity: capacity, byNumber: make(map[int]int)}
}

// NewFromAccounts seeds a Registry with accounts loaded from a snapshot,
// preserving their order.
func NewFromAccounts(capacity int, accounts []model.Account) *Registry {
	r := New(capacity)
	r.accounts = append(r.accounts, accounts...)
	for i, a := range r.accounts {
		r.byNumber[a.Number] = i
	}
	return r
}

// Find returns the account with the given number. Absence is a valid
// outcome callers branch on, not an error.
func (r *Registry) Find(number int) (model.Account, bool) {
	i, ok := r.byNumber[number]
	if !ok {
		return model.Account{}, false
	}
	return r.accounts[i], true
}

// Create assigns the next sequential number and appends a zero-balance
// account. Holder and credential are clipped to their storage caps.
func (r *Registry) Create(holder, credential string, accountType model.AccountType) (model.Account, error) {
	if len(r.accounts) >= r.capacity {
		return model.Account{}, ErrCapacityExceeded
	}

	acct := model.Account{
		Number:     FirstNumber + len(r.accounts),
		Holder:     clip(holder, model.MaxHolderLen),
		Credential: clip(credential, model.MaxCredentialLen),
		Balance:    decimal.Zero,
		Type:       accountType,
	}
	r.byNumber[acct.Number] = len(r.accounts)
	r.accounts = append(r.accounts, acct)
	return acct, nil
}

// AdjustBalance commits balance+delta for the given account, rejecting any
// delta that would drive the balance negative. Returns the updated account.
func (r *Registry) AdjustBalance(number int, delta decimal.Decimal) (model.Account, error) {
	i, ok := r.byNumber[number]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}

	next := r.accounts[i].Balance.Add(delta)
	if next.IsNegative() {
		return model.Account{}, ErrInsufficientFunds
	}
	r.accounts[i].Balance = next
	return r.accounts[i], nil
}

// SetCredential overwrites an account's credential unconditionally. Used by
// the admin reset path.
func (r *Registry) SetCredential(number int, credential string) error {
	i, ok := r.byNumber[number]
	if !ok {
		return ErrAccountNotFound
	}
	r.accounts[i].Credential = clip(credential, model.MaxCredentialLen)
	return nil
}

// All returns a copy of every account in creation order.
func (r *Registry) All() []model.Account {
	out := make([]model.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Len returns the number of live accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
