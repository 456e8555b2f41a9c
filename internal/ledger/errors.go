package ledger

import (
	"errors"

	"github.com/tellerdesk/teller/internal/registry"
)

// Categorical outcomes of ledger operations. Not-found and bad-credential on
// authenticated operations both surface as ErrAuthFailed, so callers cannot
// probe which account numbers exist.
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrAdminAuthFailed = errors.New("admin authentication failed")
	ErrInvalidAmount   = errors.New("invalid amount")

	ErrAccountNotFound   = registry.ErrAccountNotFound
	ErrInsufficientFunds = registry.ErrInsufficientFunds
	ErrCapacityExceeded  = registry.ErrCapacityExceeded
)
