// Package ledgertest provides mocks and helpers for testing extensions.
package ledgertest

import (
	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/crypto"
)

// NewKey returns a new random signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a new random key.
func NewCondition() ledger.Condition {
	return NewKey().PublicKey().Condition()
}
