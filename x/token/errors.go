package token

import (
	"github.com/ledgernet/ledger/errors"
)

// Error codes 1100-1199 are reserved for the token extension.
var (
	// ErrNoAccount is returned when the referenced token account does
	// not exist.
	ErrNoAccount = errors.Register(1100, "no such token account")

	// ErrInsufficientFunds is returned when an account holds less than
	// the requested transfer amount.
	ErrInsufficientFunds = errors.Register(1101, "insufficient funds")

	// ErrWrongAsset is returned when two accounts of different assets
	// take part in a single transfer.
	ErrWrongAsset = errors.Register(1102, "asset mismatch")

	// ErrAccountExists is returned when creating an account under an
	// address that is already taken.
	ErrAccountExists = errors.Register(1103, "account already exists")

	// ErrNonEmptyAccount is returned when closing an account that still
	// holds funds.
	ErrNonEmptyAccount = errors.Register(1104, "account still holds funds")
)
