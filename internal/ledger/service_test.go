package ledger

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellerdesk/teller/internal/auth"
	"github.com/tellerdesk/teller/internal/model"
	"github.com/tellerdesk/teller/internal/registry"
	"github.com/tellerdesk/teller/internal/txlog"
)

const adminSecret = "admin123"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newService(t *testing.T, capacity int) *Service {
	t.Helper()
	return New(
		registry.New(capacity),
		auth.New(adminSecret),
		txlog.New(filepath.Join(t.TempDir(), "transactions.log")),
	)
}

func TestCreateDepositWithdrawScenario(t *testing.T) {
	svc := newService(t, 100)

	acct, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)
	assert.Equal(t, 1000, acct.Number)
	assert.True(t, acct.Balance.IsZero())

	acct, err = svc.Deposit(1000, "pw", dec("500.00"))
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("500.00")))

	lines, err := svc.TransactionHistory()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "1000,Deposit,500.00,"))

	_, err = svc.Withdraw(1000, "pw", dec("600.00"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	info, err := svc.AccountInfo(1000, "pw")
	require.NoError(t, err)
	assert.True(t, info.Balance.Equal(dec("500.00")), "failed withdrawal must not change the balance")

	lines, err = svc.TransactionHistory()
	require.NoError(t, err)
	assert.Len(t, lines, 1, "failed withdrawal must not be logged")

	acct, err = svc.Withdraw(1000, "pw", dec("200.00"))
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("300.00")))

	lines, err = svc.TransactionHistory()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1000,Withdraw,200.00,"))
}

func TestWrongCredentialChangesNothing(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)
	_, err = svc.Deposit(1000, "pw", dec("100.00"))
	require.NoError(t, err)

	_, err = svc.Deposit(1000, "wrong", dec("50.00"))
	require.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.Withdraw(1000, "wrong", dec("50.00"))
	require.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.AccountInfo(1000, "wrong")
	require.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.EstimateInterest(1000, "wrong")
	require.ErrorIs(t, err, ErrAuthFailed)

	info, err := svc.AccountInfo(1000, "pw")
	require.NoError(t, err)
	assert.True(t, info.Balance.Equal(dec("100.00")))

	lines, err := svc.TransactionHistory()
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestUnknownAccountCollapsesIntoAuthFailed(t *testing.T) {
	svc := newService(t, 100)

	_, err := svc.Deposit(4242, "whatever", dec("10.00"))
	require.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.AccountInfo(4242, "whatever")
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestInvalidAmount(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)

	for _, amount := range []string{"0", "-1.00"} {
		_, err = svc.Deposit(1000, "pw", dec(amount))
		require.ErrorIs(t, err, ErrInvalidAmount, "deposit %s", amount)
		_, err = svc.Withdraw(1000, "pw", dec(amount))
		require.ErrorIs(t, err, ErrInvalidAmount, "withdraw %s", amount)
	}

	info, err := svc.AccountInfo(1000, "pw")
	require.NoError(t, err)
	assert.True(t, info.Balance.IsZero())

	lines, err := svc.TransactionHistory()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCapacityExceeded(t *testing.T) {
	svc := newService(t, 3)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateAccount("Holder", "pw", model.TypeSavings)
		require.NoError(t, err)
	}

	_, err := svc.CreateAccount("Overflow", "pw", model.TypeSavings)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	accounts, err := svc.ListAccounts(adminSecret)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestEstimateInterest(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Saver", "pw", model.TypeSavings)
	require.NoError(t, err)
	_, err = svc.CreateAccount("Spender", "pw", model.TypeCurrent)
	require.NoError(t, err)

	_, err = svc.Deposit(1000, "pw", dec("1000.00"))
	require.NoError(t, err)
	_, err = svc.Deposit(1001, "pw", dec("1000.00"))
	require.NoError(t, err)

	interest, err := svc.EstimateInterest(1000, "pw")
	require.NoError(t, err)
	assert.True(t, interest.Equal(dec("40.00")), "savings interest, got %s", interest)

	interest, err = svc.EstimateInterest(1001, "pw")
	require.NoError(t, err)
	assert.True(t, interest.Equal(dec("20.00")), "current interest, got %s", interest)
}

func TestAccountInfoHidesCredential(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)

	info, err := svc.AccountInfo(1000, "pw")
	require.NoError(t, err)
	assert.Empty(t, info.Credential)
	assert.Equal(t, "Alice", info.Holder)
}

func TestAdminGate(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)

	_, err = svc.ListAccounts("wrong")
	require.ErrorIs(t, err, ErrAdminAuthFailed)
	err = svc.ExportCSV("wrong", filepath.Join(t.TempDir(), "accounts.csv"))
	require.ErrorIs(t, err, ErrAdminAuthFailed)
	err = svc.ResetCredential("wrong", 1000, "new")
	require.ErrorIs(t, err, ErrAdminAuthFailed)

	// The failed reset must not have touched the credential.
	_, err = svc.AccountInfo(1000, "pw")
	require.NoError(t, err)
}

func TestResetCredential(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "old", model.TypeSavings)
	require.NoError(t, err)

	require.NoError(t, svc.ResetCredential(adminSecret, 1000, "new"))

	_, err = svc.AccountInfo(1000, "old")
	require.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.AccountInfo(1000, "new")
	require.NoError(t, err)

	// Admin reset on a missing account reports not-found distinctly.
	err = svc.ResetCredential(adminSecret, 9999, "new")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestExportCSVEmptyRegistry(t *testing.T) {
	svc := newService(t, 100)
	path := filepath.Join(t.TempDir(), "accounts.csv")

	require.NoError(t, svc.ExportCSV(adminSecret, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AccountNumber,AccountHolder,Balance,Type\n", string(data))
}

func TestExportCSVOverwrites(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)
	_, err = svc.Deposit(1000, "pw", dec("500.00"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, svc.ExportCSV(adminSecret, path))
	require.NoError(t, svc.ExportCSV(adminSecret, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1000,Alice,500.00,Savings", lines[1])
}

func TestBalanceNeverNegativeUnderRandomOps(t *testing.T) {
	svc := newService(t, 100)
	_, err := svc.CreateAccount("Fuzz", "pw", model.TypeSavings)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	successes := 0
	for i := 0; i < 500; i++ {
		amount := decimal.NewFromInt(rng.Int63n(2000) - 500).Div(decimal.NewFromInt(100))
		if rng.Intn(2) == 0 {
			if _, err := svc.Deposit(1000, "pw", amount); err == nil {
				successes++
			}
		} else {
			if _, err := svc.Withdraw(1000, "pw", amount); err == nil {
				successes++
			}
		}

		info, err := svc.AccountInfo(1000, "pw")
		require.NoError(t, err)
		require.False(t, info.Balance.IsNegative(), "balance went negative at op %d: %s", i, info.Balance)
	}

	lines, err := svc.TransactionHistory()
	require.NoError(t, err)
	assert.Len(t, lines, successes, "one log line per successful monetary operation")
}
