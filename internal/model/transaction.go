package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action tags the direction of a transaction log entry.
type Action string

const (
	ActionDeposit  Action = "Deposit"
	ActionWithdraw Action = "Withdraw"
)

// Entry is one row in the append-only transaction log.
type Entry struct {
	AccountNumber int
	Action        Action
	Amount        decimal.Decimal // strictly positive
	Timestamp     time.Time
}
