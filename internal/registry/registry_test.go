package registry

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellerdesk/teller/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateSequentialNumbers(t *testing.T) {
	r := New(100)

	for i := 0; i < 5; i++ {
		acct, err := r.Create("Holder", "pw", model.TypeSavings)
		require.NoError(t, err)
		assert.Equal(t, 1000+i, acct.Number)
		assert.True(t, acct.Balance.IsZero())
	}
	assert.Equal(t, 5, r.Len())
}

func TestCreateCapacityExceeded(t *testing.T) {
	r := New(2)

	_, err := r.Create("A", "pw", model.TypeSavings)
	require.NoError(t, err)
	_, err = r.Create("B", "pw", model.TypeCurrent)
	require.NoError(t, err)

	_, err = r.Create("C", "pw", model.TypeSavings)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, r.Len(), "rejected create must not mutate the registry")
}

func TestCreateClipsFields(t *testing.T) {
	r := New(10)

	acct, err := r.Create(strings.Repeat("h", 150), strings.Repeat("p", 30), model.TypeSavings)
	require.NoError(t, err)
	assert.Len(t, acct.Holder, model.MaxHolderLen)
	assert.Len(t, acct.Credential, model.MaxCredentialLen)
}

func TestFind(t *testing.T) {
	r := New(10)
	created, err := r.Create("Alice", "pw", model.TypeCurrent)
	require.NoError(t, err)

	got, ok := r.Find(created.Number)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Holder)
	assert.Equal(t, model.TypeCurrent, got.Type)

	_, ok = r.Find(9999)
	assert.False(t, ok)
}

func TestAdjustBalance(t *testing.T) {
	r := New(10)
	acct, err := r.Create("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)

	got, err := r.AdjustBalance(acct.Number, dec("500.00"))
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("500.00")))

	got, err = r.AdjustBalance(acct.Number, dec("-200.00"))
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("300.00")))
}

func TestAdjustBalanceInsufficientFunds(t *testing.T) {
	r := New(10)
	acct, err := r.Create("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)
	_, err = r.AdjustBalance(acct.Number, dec("100.00"))
	require.NoError(t, err)

	_, err = r.AdjustBalance(acct.Number, dec("-100.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	got, _ := r.Find(acct.Number)
	assert.True(t, got.Balance.Equal(dec("100.00")), "failed adjust must leave balance unchanged")

	// Draining to exactly zero is allowed.
	got, err = r.AdjustBalance(acct.Number, dec("-100.00"))
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestAdjustBalanceNotFound(t *testing.T) {
	r := New(10)
	_, err := r.AdjustBalance(1000, dec("10.00"))
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSetCredential(t *testing.T) {
	r := New(10)
	acct, err := r.Create("Alice", "old", model.TypeSavings)
	require.NoError(t, err)

	require.NoError(t, r.SetCredential(acct.Number, "new"))
	got, _ := r.Find(acct.Number)
	assert.Equal(t, "new", got.Credential)

	require.ErrorIs(t, r.SetCredential(9999, "x"), ErrAccountNotFound)
}

func TestNewFromAccounts(t *testing.T) {
	seed := []model.Account{
		{Number: 1000, Holder: "A", Credential: "a", Balance: dec("1.00"), Type: model.TypeSavings},
		{Number: 1001, Holder: "B", Credential: "b", Balance: dec("2.00"), Type: model.TypeCurrent},
	}
	r := NewFromAccounts(100, seed)

	assert.Equal(t, 2, r.Len())
	got, ok := r.Find(1001)
	require.True(t, ok)
	assert.Equal(t, "B", got.Holder)

	// Numbering continues after the seeded accounts.
	acct, err := r.Create("C", "c", model.TypeSavings)
	require.NoError(t, err)
	assert.Equal(t, 1002, acct.Number)
}

func TestAllReturnsCopy(t *testing.T) {
	r := New(10)
	_, err := r.Create("Alice", "pw", model.TypeSavings)
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 1)
	all[0].Holder = "mutated"

	got, _ := r.Find(1000)
	assert.Equal(t, "Alice", got.Holder)
}
