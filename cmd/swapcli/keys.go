package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/crypto"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/x"
)

func registerKeyCommands(parser *flags.Parser) {
	addCommand(parser, "keygen",
		"Generate a new key",
		"Generate a new ed25519 key, store it hex encoded in the given file and print its address.",
		&keygenCmd{})
}

type keygenCmd struct {
	Out string `short:"o" long:"out" required:"true" description:"File to write the private key to"`
}

func (c *keygenCmd) Execute([]string) error {
	key := crypto.GenPrivKeyEd25519()
	raw := hex.EncodeToString(key)
	if err := ioutil.WriteFile(c.Out, []byte(raw+"\n"), 0600); err != nil {
		return errors.Wrap(err, "write key file")
	}
	addr := key.PublicKey().Address()
	log.Info().Str("path", c.Out).Msg("key created")
	fmt.Println(encodeAddress(addr))
	return nil
}

func loadKey(path string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key file: %s", err)
	}
	return crypto.PrivateKey(key), nil
}

// signerAuth authenticates the key holders driving this process. The CLI
// holds the private keys, so possession stands in for a verified
// transaction signature.
type signerAuth struct {
	conds []ledger.Condition
}

var _ x.Authenticator = signerAuth{}

func authFor(keys ...crypto.Signer) signerAuth {
	conds := make([]ledger.Condition, len(keys))
	for i, k := range keys {
		conds[i] = k.PublicKey().Condition()
	}
	return signerAuth{conds: conds}
}

func (a signerAuth) GetConditions(ledger.Context) []ledger.Condition {
	return a.conds
}

func (a signerAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, c := range a.conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
