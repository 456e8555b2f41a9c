// Package ledger orchestrates account operations. Each operation is a
// short-lived transaction over the registry: authenticate, check, commit,
// log. All checks precede any mutation, so a failed operation never leaves
// partial state behind.
package ledger

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/tellerdesk/teller/internal/auth"
	"github.com/tellerdesk/teller/internal/model"
	"github.com/tellerdesk/teller/internal/registry"
	"github.com/tellerdesk/teller/internal/txlog"
)

// Service composes the account registry, authenticator, and transaction log.
// It is the only surface callers use to touch accounts.
type Service struct {
	registry *registry.Registry
	auth     *auth.Authenticator
	log      *txlog.Log
}

// New creates a ledger Service.
func New(reg *registry.Registry, authn *auth.Authenticator, log *txlog.Log) *Service {
	return &Service{registry: reg, auth: authn, log: log}
}

// CreateAccount opens a zero-balance account and returns it with its
// assigned number. Requires no authentication.
func (s *Service) CreateAccount(holder, credential string, accountType model.AccountType) (model.Account, error) {
	return s.registry.Create(holder, credential, accountType)
}

// authenticate resolves an account and checks its credential. A missing
// account and a wrong credential are indistinguishable to the caller.
func (s *Service) authenticate(number int, credential string) (model.Account, error) {
	acct, ok := s.registry.Find(number)
	if !ok || !s.auth.Verify(acct.Credential, credential) {
		return model.Account{}, ErrAuthFailed
	}
	return acct, nil
}

// Deposit adds amount to the account balance and logs the movement.
func (s *Service) Deposit(number int, credential string, amount decimal.Decimal) (model.Account, error) {
	if _, err := s.authenticate(number, credential); err != nil {
		return model.Account{}, err
	}
	if !amount.IsPositive() {
		return model.Account{}, ErrInvalidAmount
	}

	acct, err := s.registry.AdjustBalance(number, amount)
	if err != nil {
		return model.Account{}, err
	}
	if err := s.log.Append(model.Entry{AccountNumber: number, Action: model.ActionDeposit, Amount: amount}); err != nil {
		return model.Account{}, fmt.Errorf("recording deposit: %w", err)
	}
	return acct, nil
}

// Withdraw removes amount from the account balance and logs the movement.
// The balance can never go negative.
func (s *Service) Withdraw(number int, credential string, amount decimal.Decimal) (model.Account, error) {
	if _, err := s.authenticate(number, credential); err != nil {
		return model.Account{}, err
	}
	if !amount.IsPositive() {
		return model.Account{}, ErrInvalidAmount
	}

	acct, err := s.registry.AdjustBalance(number, amount.Neg())
	if err != nil {
		return model.Account{}, err
	}
	if err := s.log.Append(model.Entry{AccountNumber: number, Action: model.ActionWithdraw, Amount: amount}); err != nil {
		return model.Account{}, fmt.Errorf("recording withdrawal: %w", err)
	}
	return acct, nil
}

// AccountInfo returns a read-only projection of the account. The stored
// credential is not echoed back.
func (s *Service) AccountInfo(number int, credential string) (model.Account, error) {
	acct, err := s.authenticate(number, credential)
	if err != nil {
		return model.Account{}, err
	}
	acct.Credential = ""
	return acct, nil
}

// EstimateInterest returns the annual interest on the current balance:
// 4% for savings accounts, 2% for current accounts. Pure computation.
func (s *Service) EstimateInterest(number int, credential string) (decimal.Decimal, error) {
	acct, err := s.authenticate(number, credential)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return acct.Balance.Mul(acct.Type.InterestRate()), nil
}

// TransactionHistory returns every transaction log line in append order.
func (s *Service) TransactionHistory() ([]string, error) {
	return s.log.ReadAll()
}

// ListAccounts returns all accounts. Admin only.
func (s *Service) ListAccounts(adminSecret string) ([]model.Account, error) {
	if !s.auth.VerifyAdmin(adminSecret) {
		return nil, ErrAdminAuthFailed
	}
	return s.registry.All(), nil
}

// ExportCSV overwrites path with the account export: a header row plus one
// row per account. Admin only.
func (s *Service) ExportCSV(adminSecret, path string) error {
	if !s.auth.VerifyAdmin(adminSecret) {
		return ErrAdminAuthFailed
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := registry.WriteCSV(f, s.registry.All()); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// ResetCredential overwrites an account's credential. Admin only; unlike the
// per-account operations, a missing account is reported as such because the
// caller has already proven admin identity.
func (s *Service) ResetCredential(adminSecret string, number int, newCredential string) error {
	if !s.auth.VerifyAdmin(adminSecret) {
		return ErrAdminAuthFailed
	}
	return s.registry.SetCredential(number, newCredential)
}

// Accounts returns a copy of the registry contents, used for the shutdown
// snapshot.
func (s *Service) Accounts() []model.Account {
	return s.registry.All()
}
