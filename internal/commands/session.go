package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tellerdesk/teller/internal/config"
	"github.com/tellerdesk/teller/internal/gitops"
	"github.com/tellerdesk/teller/internal/ledger"
	"github.com/tellerdesk/teller/internal/model"
	"github.com/tellerdesk/teller/internal/snapshot"
	"github.com/tellerdesk/teller/internal/terminal"
)

const menu = `
==== Bank Account System ====
 1. Create account
 2. Deposit
 3. Withdraw
 4. Account info
 5. Estimate interest
 6. Transaction history
 7. List all accounts (admin)
 8. Export to CSV (admin)
 9. Reset password (admin)
10. Save & exit
`

var errBadInput = errors.New("invalid input")

// session drives one interactive menu loop over a ledger service. Malformed
// input never reaches the service; the prompt just repeats.
type session struct {
	svc *ledger.Service
	cfg *config.Config
	dir string
	in  *bufio.Reader
	out io.Writer
}

func (s *session) loop() error {
	for {
		fmt.Fprint(s.out, menu)
		choice, err := s.readInt("Enter your choice: ")
		if err != nil {
			if errors.Is(err, errBadInput) {
				fmt.Fprintln(s.out, "Invalid input.")
				continue
			}
			// Input ended without an explicit exit; save what we have.
			return s.saveAndExit()
		}

		switch choice {
		case 1:
			s.createAccount()
		case 2:
			s.deposit()
		case 3:
			s.withdraw()
		case 4:
			s.accountInfo()
		case 5:
			s.estimateInterest()
		case 6:
			s.transactionHistory()
		case 7:
			s.listAccounts()
		case 8:
			s.exportCSV()
		case 9:
			s.resetCredential()
		case 10:
			return s.saveAndExit()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Try again.")
		}
	}
}

func (s *session) createAccount() {
	holder, err := s.readLine("Enter account holder name: ")
	if err != nil {
		return
	}
	credential, err := terminal.ReadMasked(s.in, "Set account password: ")
	if err != nil {
		return
	}
	typeCode, err := s.readInt("Select account type (0 for Savings, 1 for Current): ")
	if err != nil {
		s.badInput(err)
		return
	}

	accountType := model.TypeSavings
	if typeCode == 1 {
		accountType = model.TypeCurrent
	}

	acct, err := s.svc.CreateAccount(holder, credential, accountType)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Account created. Number assigned: %d\n", acct.Number)
}

func (s *session) deposit() {
	number, credential, ok := s.readAccountAndCredential()
	if !ok {
		return
	}
	amount, err := s.readAmount("Enter deposit amount: ")
	if err != nil {
		s.badInput(err)
		return
	}

	acct, err := s.svc.Deposit(number, credential, amount)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Deposited %s. New balance: %s\n", amount.StringFixed(2), acct.Balance.StringFixed(2))
}

func (s *session) withdraw() {
	number, credential, ok := s.readAccountAndCredential()
	if !ok {
		return
	}
	amount, err := s.readAmount("Enter withdrawal amount: ")
	if err != nil {
		s.badInput(err)
		return
	}

	acct, err := s.svc.Withdraw(number, credential, amount)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Withdrawn %s. New balance: %s\n", amount.StringFixed(2), acct.Balance.StringFixed(2))
}

func (s *session) accountInfo() {
	number, credential, ok := s.readAccountAndCredential()
	if !ok {
		return
	}

	acct, err := s.svc.AccountInfo(number, credential)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, "\n--- Account Info ---")
	fmt.Fprintf(s.out, "Account Number : %d\n", acct.Number)
	fmt.Fprintf(s.out, "Account Holder : %s\n", acct.Holder)
	fmt.Fprintf(s.out, "Account Type   : %s\n", acct.Type)
	fmt.Fprintf(s.out, "Balance        : %s\n", acct.Balance.StringFixed(2))
}

func (s *session) estimateInterest() {
	number, credential, ok := s.readAccountAndCredential()
	if !ok {
		return
	}

	interest, err := s.svc.EstimateInterest(number, credential)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Estimated annual interest: %s\n", interest.StringFixed(2))
}

func (s *session) transactionHistory() {
	lines, err := s.svc.TransactionHistory()
	if err != nil {
		s.report(err)
		return
	}
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "No transaction history found.")
		return
	}
	fmt.Fprintln(s.out, "\n--- Transaction History ---")
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
}

func (s *session) listAccounts() {
	secret, err := terminal.ReadMasked(s.in, "Enter admin password: ")
	if err != nil {
		return
	}

	accounts, err := s.svc.ListAccounts(secret)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, "\n--- All Accounts ---")
	for _, acct := range accounts {
		fmt.Fprintf(s.out, "Acc No: %d | Name: %s | Balance: %s | Type: %s\n",
			acct.Number, acct.Holder, acct.Balance.StringFixed(2), acct.Type)
	}
}

func (s *session) exportCSV() {
	secret, err := terminal.ReadMasked(s.in, "Enter admin password: ")
	if err != nil {
		return
	}

	path := filepath.Join(s.dir, s.cfg.Ledger.ExportFile)
	if err := s.svc.ExportCSV(secret, path); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Exported to %s successfully.\n", s.cfg.Ledger.ExportFile)
}

func (s *session) resetCredential() {
	secret, err := terminal.ReadMasked(s.in, "Enter admin password: ")
	if err != nil {
		return
	}
	number, err := s.readInt("Enter account number to reset password: ")
	if err != nil {
		s.badInput(err)
		return
	}
	newCredential, err := terminal.ReadMasked(s.in, "Enter new password: ")
	if err != nil {
		return
	}

	if err := s.svc.ResetCredential(secret, number, newCredential); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, "Password reset successful.")
}

func (s *session) saveAndExit() error {
	dataPath := filepath.Join(s.dir, s.cfg.Ledger.DataFile)
	if err := snapshot.Save(dataPath, s.svc.Accounts()); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}

	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.dir) {
		_, err := gitops.CommitPaths(s.dir, "teller: save session",
			s.cfg.Git.AuthorName, s.cfg.Git.AuthorEmail,
			s.cfg.Ledger.DataFile, s.cfg.Ledger.LogFile)
		if err != nil {
			fmt.Fprintf(s.out, "Warning: git commit failed: %v\n", err)
		}
	}

	fmt.Fprintln(s.out, "Data saved. Exiting...")
	return nil
}

// readAccountAndCredential prompts for the pair every authenticated
// operation starts with.
func (s *session) readAccountAndCredential() (int, string, bool) {
	number, err := s.readInt("Enter account number: ")
	if err != nil {
		s.badInput(err)
		return 0, "", false
	}
	credential, err := terminal.ReadMasked(s.in, "Enter password: ")
	if err != nil {
		return 0, "", false
	}
	return number, credential, true
}

func (s *session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *session) readInt(prompt string) (int, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errBadInput
	}
	return n, nil
}

func (s *session) readAmount(prompt string) (decimal.Decimal, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(line))
	if err != nil {
		return decimal.Decimal{}, errBadInput
	}
	return d, nil
}

func (s *session) badInput(err error) {
	if errors.Is(err, errBadInput) {
		fmt.Fprintln(s.out, "Invalid input.")
	}
}

func (s *session) report(err error) {
	switch {
	case errors.Is(err, ledger.ErrAuthFailed):
		fmt.Fprintln(s.out, "Authentication failed.")
	case errors.Is(err, ledger.ErrAdminAuthFailed):
		fmt.Fprintln(s.out, "Access denied.")
	case errors.Is(err, ledger.ErrInvalidAmount):
		fmt.Fprintln(s.out, "Invalid amount.")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		fmt.Fprintln(s.out, "Insufficient balance.")
	case errors.Is(err, ledger.ErrCapacityExceeded):
		fmt.Fprintln(s.out, "Max account limit reached.")
	case errors.Is(err, ledger.ErrAccountNotFound):
		fmt.Fprintln(s.out, "Account not found.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}
