package main

import (
	"github.com/btcsuite/btcutil/bech32"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

// addressHRP is the human readable prefix of bech32 encoded addresses.
const addressHRP = "swap"

func encodeAddress(a ledger.Address) string {
	conv, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		// Cannot happen for a valid address, the input width is fixed.
		panic(err)
	}
	s, err := bech32.Encode(addressHRP, conv)
	if err != nil {
		panic(err)
	}
	return s
}

func decodeAddress(s string) (ledger.Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	if hrp != addressHRP {
		return nil, errors.Wrapf(errors.ErrInput, "address prefix %q, want %q", hrp, addressHRP)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	a := ledger.Address(raw)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// addressFlag parses a bech32 address directly from the command line.
type addressFlag struct {
	ledger.Address
}

var _ interface{ UnmarshalFlag(string) error } = (*addressFlag)(nil)

func (f *addressFlag) UnmarshalFlag(value string) error {
	a, err := decodeAddress(value)
	if err != nil {
		return err
	}
	f.Address = a
	return nil
}
