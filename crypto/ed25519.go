// Package crypto turns public keys into conditions, so key holders and
// keyless derived authorities are addressed the same way.
package crypto

import (
	"golang.org/x/crypto/ed25519"

	"github.com/ledgernet/ledger"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// Signature is a raw ed25519 signature.
type Signature []byte

// PublicKey wraps an ed25519 public key.
type PublicKey ed25519.PublicKey

// Verify verifies the signature was created with this message and public
// key.
func (p PublicKey) Verify(message []byte, sig Signature) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a condition.
func (p PublicKey) Condition() ledger.Condition {
	return ledger.NewCondition(ExtensionName, "ed25519", p)
}

// Address is a shortcut for Condition().Address().
func (p PublicKey) Address() ledger.Address {
	return p.Condition().Address()
}

// Signer is the functionality we use from a private key. No serializing
// to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (Signature, error)
	PublicKey() PublicKey
}

// PrivateKey wraps an ed25519 private key.
type PrivateKey ed25519.PrivateKey

var _ Signer = PrivateKey{}

// Sign returns a matching signature for this private key.
func (p PrivateKey) Sign(message []byte) (Signature, error) {
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the corresponding public key.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(ed25519.PrivateKey(p).Public().(ed25519.PublicKey))
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key
// from a given seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}
