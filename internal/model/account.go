package model

import "github.com/shopspring/decimal"

// AccountType classifies an account. It is fixed at creation and never changes.
type AccountType int32

const (
	TypeSavings AccountType = 0
	TypeCurrent AccountType = 1
)

func (t AccountType) String() string {
	if t == TypeCurrent {
		return "Current"
	}
	return "Savings"
}

// Valid reports whether t is a known account type code. Snapshot files store
// the raw code, so unknown values can appear in corrupt or foreign files.
func (t AccountType) Valid() bool {
	return t == TypeSavings || t == TypeCurrent
}

// InterestRate returns the annual rate used for interest estimates.
func (t AccountType) InterestRate() decimal.Decimal {
	if t == TypeCurrent {
		return decimal.NewFromFloat(0.02)
	}
	return decimal.NewFromFloat(0.04)
}

// Storage caps for text fields. The snapshot record reserves one extra byte
// per field for NUL padding.
const (
	MaxHolderLen     = 99
	MaxCredentialLen = 19
)

// Account is one ledger record: one holder, one balance, one credential.
type Account struct {
	Number     int
	Holder     string
	Credential string // cleartext, compared by exact match
	Balance    decimal.Decimal
	Type       AccountType
}
