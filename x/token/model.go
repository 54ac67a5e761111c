package token

import (
	"encoding/binary"
	"regexp"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/orm"
)

// Accounts are stored as a plain byte layout, not a generated codec, so
// any implementation can parse them:
//
//   bytes  0..20  controlling authority address
//   bytes 20..24  asset ticker, zero padded
//   bytes 24..32  balance, little endian uint64
const accountSize = 32

var isAssetName = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Asset is a ticker naming a fungible asset, 3-4 upper case letters.
type Asset string

// Validate returns an error if this is not a well formed ticker.
func (a Asset) Validate() error {
	if !isAssetName(string(a)) {
		return errors.ErrInput.Newf("asset: %q", string(a))
	}
	return nil
}

// Account is a single-asset holding controlled by an authority address.
type Account struct {
	// Authority may move the funds, reassign control, or close the
	// account. It does not have to equal the account address.
	Authority ledger.Address

	// Asset the balance is denominated in.
	Asset Asset

	// Balance in the smallest unit of the asset.
	Balance uint64
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is valid.
func (a *Account) Validate() error {
	if err := a.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if err := a.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	return nil
}

// Marshal serializes the account into its fixed byte layout.
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, accountSize)
	copy(raw[0:20], a.Authority)
	copy(raw[20:24], a.Asset)
	binary.LittleEndian.PutUint64(raw[24:32], a.Balance)
	return raw, nil
}

// Unmarshal loads the account from its fixed byte layout.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) != accountSize {
		return errors.ErrInput.Newf("account data: %d bytes", len(raw))
	}
	a.Authority = ledger.Address(raw[0:20]).Clone()
	asset := raw[20:24]
	for len(asset) > 0 && asset[len(asset)-1] == 0 {
		asset = asset[:len(asset)-1]
	}
	a.Asset = Asset(asset)
	a.Balance = binary.LittleEndian.Uint64(raw[24:32])
	return nil
}

// NewAccountBucket returns the bucket holding all token accounts, keyed
// by account address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokacct")
}

// NewNativeBucket returns the bucket holding native balances, keyed by
// address. Values are little endian uint64.
func NewNativeBucket() orm.Bucket {
	return orm.NewBucket("native")
}
