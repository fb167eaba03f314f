// internal/util/errors.go
package util

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common application-specific errors. Resolution failures and business-rule
// rejections abort a settlement operation before any mutation; a caller must
// not retry them without new input.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrTokenNotFound        = errors.New("token not found")
	ErrNoSuchHolding        = errors.New("token not held by wallet")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient token holdings")
	ErrWalletExists         = errors.New("wallet already exists for this user")
	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthorized         = errors.New("unauthorized")
)

// IsError reports whether err matches target in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// InsufficientFundsError carries the amounts a caller needs to resubmit with
// an adjusted quantity. It matches ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InsufficientHoldingsError reports a sell for more than the wallet holds.
// It matches ErrInsufficientHoldings under errors.Is.
type InsufficientHoldingsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient token holdings: requested %s, available %s", e.Requested, e.Available)
}

func (e *InsufficientHoldingsError) Is(target error) bool {
	return target == ErrInsufficientHoldings
}
