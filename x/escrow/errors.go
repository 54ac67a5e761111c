package escrow

import "github.com/ledgernet/ledger/errors"

var (
	// ErrMalformedInstruction is returned when an instruction buffer
	// cannot be decoded into a known operation.
	ErrMalformedInstruction = errors.Register(1000, "malformed instruction")

	// ErrMissingSignature is returned when a required signer did not
	// authorize the transaction.
	ErrMissingSignature = errors.Register(1001, "missing required signature")

	// ErrNotRentExempt is returned when the record account does not hold
	// the minimum native deposit.
	ErrNotRentExempt = errors.Register(1002, "record account is not rent exempt")

	// ErrInvalidAccountOwner is returned when a referenced account does
	// not belong to the expected module.
	ErrInvalidAccountOwner = errors.Register(1003, "invalid account owner")

	// ErrAccountMismatch is returned when a supplied account does not
	// match the one stored in the escrow record.
	ErrAccountMismatch = errors.Register(1004, "account does not match escrow record")

	// ErrInvalidAuthority is returned when the supplied authority is not
	// the derived module authority.
	ErrInvalidAuthority = errors.Register(1005, "invalid derived authority")

	// ErrAmountMismatch is returned when the paid amount differs from the
	// amount recorded by the initializer.
	ErrAmountMismatch = errors.Register(1006, "expected amount mismatch")

	// ErrAlreadyInitialized is returned when an escrow record would be
	// created over an existing one.
	ErrAlreadyInitialized = errors.Register(1007, "escrow record already initialized")

	// ErrRecordNotFound is returned when the referenced escrow record
	// does not exist.
	ErrRecordNotFound = errors.Register(1008, "escrow record not found")
)
