package token

import (
	"encoding/binary"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/orm"
)

// ModuleCondition identifies the token module itself. Operations that
// must reference "the asset-account program" present this condition's
// address.
var ModuleCondition = ledger.NewCondition("token", "module", []byte("accounts"))

// RentCondition identifies the minimum-balance oracle of the module.
var RentCondition = ledger.NewCondition("token", "module", []byte("rent"))

// Controller is the transfer primitive other extensions invoke. All
// mutations require the acting authority, which the caller is trusted to
// have authenticated (a signer) or derived (a keyless condition).
type Controller interface {
	// HasAccount returns true when an account exists under the address,
	// i.e. the address is owned by this module.
	HasAccount(db ledger.ReadOnlyKVStore, acct ledger.Address) (bool, error)

	// GetAccount loads the account, failing with ErrNoAccount when
	// absent.
	GetAccount(db ledger.ReadOnlyKVStore, acct ledger.Address) (*Account, error)

	// Balance returns the asset balance of the account.
	Balance(db ledger.ReadOnlyKVStore, acct ledger.Address) (uint64, error)

	// Transfer moves amount from src to dst. Both accounts must exist
	// and be denominated in the same asset, and by must be the current
	// authority of src.
	Transfer(db ledger.KVStore, by, src, dst ledger.Address, amount uint64) error

	// SetAuthority reassigns control of the account from by to the new
	// authority.
	SetAuthority(db ledger.KVStore, by, acct, newAuthority ledger.Address) error

	// CloseAccount removes an emptied account and reclaims its native
	// deposit to the recipient.
	CloseAccount(db ledger.KVStore, by, acct, depositRecipient ledger.Address) error

	// NativeBalance returns the native units held by the address.
	NativeBalance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error)

	// IsRentExempt checks the address native balance against the
	// configured minimum.
	IsRentExempt(db ledger.ReadOnlyKVStore, addr ledger.Address) (bool, error)

	// ReclaimDeposit moves the entire native balance of the address to
	// the recipient, clearing the entry.
	ReclaimDeposit(db ledger.KVStore, addr, recipient ledger.Address) error
}

// BankController is the Controller plus the supply-side helpers used for
// genesis setup and tests.
type BankController interface {
	Controller

	// CreateAccount allocates a new account under the address.
	CreateAccount(db ledger.KVStore, acct, authority ledger.Address, asset Asset, balance uint64) error

	// IssueTokens credits the amount to an existing account.
	IssueTokens(db ledger.KVStore, acct ledger.Address, amount uint64) error

	// DepositNative credits native units out of thin air.
	DepositNative(db ledger.KVStore, addr ledger.Address, amount uint64) error
}

type controller struct {
	accounts orm.ModelBucket
	native   orm.Bucket
}

var _ BankController = (*controller)(nil)

// NewController returns a controller over the default buckets.
func NewController() BankController {
	return &controller{
		accounts: NewAccountBucket(),
		native:   NewNativeBucket(),
	}
}

func (c *controller) HasAccount(db ledger.ReadOnlyKVStore, acct ledger.Address) (bool, error) {
	return c.accounts.Has(db, acct)
}

func (c *controller) GetAccount(db ledger.ReadOnlyKVStore, acct ledger.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, acct, &a); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrNoAccount, "%s", acct)
		}
		return nil, err
	}
	return &a, nil
}

func (c *controller) Balance(db ledger.ReadOnlyKVStore, acct ledger.Address) (uint64, error) {
	a, err := c.GetAccount(db, acct)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

func (c *controller) Transfer(db ledger.KVStore, by, src, dst ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	sender, err := c.GetAccount(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !sender.Authority.Equals(by) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the authority of %s", by, src)
	}
	recipient, err := c.GetAccount(db, dst)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if sender.Asset != recipient.Asset {
		return errors.Wrapf(ErrWrongAsset, "%s into %s", sender.Asset, recipient.Asset)
	}
	if sender.Balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, want %d", sender.Balance, amount)
	}
	sum, err := checkedAdd(recipient.Balance, amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}
	sender.Balance -= amount
	recipient.Balance = sum

	if err := c.accounts.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "store source")
	}
	return errors.Wrap(c.accounts.Put(db, dst, recipient), "store destination")
}

func (c *controller) SetAuthority(db ledger.KVStore, by, acct, newAuthority ledger.Address) error {
	if err := newAuthority.Validate(); err != nil {
		return errors.Wrap(err, "new authority")
	}
	a, err := c.GetAccount(db, acct)
	if err != nil {
		return err
	}
	if !a.Authority.Equals(by) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the authority of %s", by, acct)
	}
	a.Authority = newAuthority.Clone()
	return c.accounts.Put(db, acct, a)
}

func (c *controller) CloseAccount(db ledger.KVStore, by, acct, depositRecipient ledger.Address) error {
	a, err := c.GetAccount(db, acct)
	if err != nil {
		return err
	}
	if !a.Authority.Equals(by) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the authority of %s", by, acct)
	}
	if a.Balance != 0 {
		return errors.Wrapf(ErrNonEmptyAccount, "balance %d", a.Balance)
	}
	if err := c.accounts.Delete(db, acct); err != nil {
		return errors.Wrap(err, "delete account")
	}
	return c.ReclaimDeposit(db, acct, depositRecipient)
}

func (c *controller) NativeBalance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error) {
	raw, err := c.native.Get(db, addr)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.ErrModel.Newf("native balance data: %d bytes", len(raw))
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (c *controller) IsRentExempt(db ledger.ReadOnlyKVStore, addr ledger.Address) (bool, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return false, err
	}
	balance, err := c.NativeBalance(db, addr)
	if err != nil {
		return false, err
	}
	return balance >= conf.MinimumBalance, nil
}

func (c *controller) ReclaimDeposit(db ledger.KVStore, addr, recipient ledger.Address) error {
	deposit, err := c.NativeBalance(db, addr)
	if err != nil {
		return err
	}
	if deposit == 0 {
		return nil
	}
	have, err := c.NativeBalance(db, recipient)
	if err != nil {
		return err
	}
	sum, err := checkedAdd(have, deposit)
	if err != nil {
		return errors.Wrap(err, "recipient deposit")
	}
	if err := c.setNative(db, recipient, sum); err != nil {
		return err
	}
	return errors.Wrap(c.native.Delete(db, addr), "clear deposit")
}

func (c *controller) CreateAccount(db ledger.KVStore, acct, authority ledger.Address, asset Asset, balance uint64) error {
	if err := acct.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	switch ok, err := c.accounts.Has(db, acct); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAccountExists, "%s", acct)
	}
	a := &Account{
		Authority: authority.Clone(),
		Asset:     asset,
		Balance:   balance,
	}
	return c.accounts.Put(db, acct, a)
}

func (c *controller) IssueTokens(db ledger.KVStore, acct ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero issuance")
	}
	a, err := c.GetAccount(db, acct)
	if err != nil {
		return err
	}
	sum, err := checkedAdd(a.Balance, amount)
	if err != nil {
		return err
	}
	a.Balance = sum
	return c.accounts.Put(db, acct, a)
}

func (c *controller) DepositNative(db ledger.KVStore, addr ledger.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	have, err := c.NativeBalance(db, addr)
	if err != nil {
		return err
	}
	sum, err := checkedAdd(have, amount)
	if err != nil {
		return err
	}
	return c.setNative(db, addr, sum)
}

func (c *controller) setNative(db ledger.KVStore, addr ledger.Address, amount uint64) error {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, amount)
	return c.native.Save(db, addr, raw)
}

// checkedAdd fails instead of wrapping around.
func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}
