package token

import (
	"math"
	"testing"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/ledgertest"
	"github.com/ledgernet/ledger/ledgertest/assert"
	"github.com/ledgernet/ledger/store"
)

func TestControllerTransfer(t *testing.T) {
	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()
	aliceAcct := ledgertest.NewCondition().Address()
	bobAcct := ledgertest.NewCondition().Address()
	bobEur := ledgertest.NewCondition().Address()

	cases := map[string]struct {
		by      ledger.Address
		src     ledger.Address
		dst     ledger.Address
		amount  uint64
		wantErr *errors.Error
	}{
		"success": {
			by:     alice,
			src:    aliceAcct,
			dst:    bobAcct,
			amount: 100,
		},
		"full balance": {
			by:     alice,
			src:    aliceAcct,
			dst:    bobAcct,
			amount: 1000,
		},
		"zero amount": {
			by:      alice,
			src:     aliceAcct,
			dst:     bobAcct,
			amount:  0,
			wantErr: errors.ErrAmount,
		},
		"not the authority": {
			by:      bob,
			src:     aliceAcct,
			dst:     bobAcct,
			amount:  100,
			wantErr: errors.ErrUnauthorized,
		},
		"unknown source": {
			by:      alice,
			src:     ledgertest.NewCondition().Address(),
			dst:     bobAcct,
			amount:  100,
			wantErr: ErrNoAccount,
		},
		"unknown destination": {
			by:      alice,
			src:     aliceAcct,
			dst:     ledgertest.NewCondition().Address(),
			amount:  100,
			wantErr: ErrNoAccount,
		},
		"asset mismatch": {
			by:      alice,
			src:     aliceAcct,
			dst:     bobEur,
			amount:  100,
			wantErr: ErrWrongAsset,
		},
		"insufficient funds": {
			by:      alice,
			src:     aliceAcct,
			dst:     bobAcct,
			amount:  1001,
			wantErr: ErrInsufficientFunds,
		},
		"destination overflow": {
			by:      alice,
			src:     aliceAcct,
			dst:     bobAcct,
			amount:  1000,
			wantErr: errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.CreateAccount(db, aliceAcct, alice, "BTC", 1000))
			bobStart := uint64(0)
			if tc.wantErr == errors.ErrOverflow {
				bobStart = math.MaxUint64 - 10
			}
			assert.Nil(t, ctrl.CreateAccount(db, bobAcct, bob, "BTC", bobStart))
			assert.Nil(t, ctrl.CreateAccount(db, bobEur, bob, "EUR", 0))

			err := ctrl.Transfer(db, tc.by, tc.src, tc.dst, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				// Failed transfers must not move anything.
				got, err := ctrl.Balance(db, aliceAcct)
				assert.Nil(t, err)
				assert.Equal(t, uint64(1000), got)
				return
			}
			src, err := ctrl.Balance(db, tc.src)
			assert.Nil(t, err)
			assert.Equal(t, 1000-tc.amount, src)
			dst, err := ctrl.Balance(db, tc.dst)
			assert.Nil(t, err)
			assert.Equal(t, tc.amount, dst)
		})
	}
}

func TestControllerSetAuthority(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()
	acct := ledgertest.NewCondition().Address()
	assert.Nil(t, ctrl.CreateAccount(db, acct, alice, "BTC", 5))

	assert.IsErr(t, errors.ErrUnauthorized, ctrl.SetAuthority(db, bob, acct, bob))
	assert.Nil(t, ctrl.SetAuthority(db, alice, acct, bob))

	// Control changed hands, the previous authority is locked out.
	assert.IsErr(t, errors.ErrUnauthorized, ctrl.SetAuthority(db, alice, acct, alice))
	a, err := ctrl.GetAccount(db, acct)
	assert.Nil(t, err)
	assert.Equal(t, bob, a.Authority)
}

func TestControllerCloseAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := ledgertest.NewCondition().Address()
	bob := ledgertest.NewCondition().Address()
	funded := ledgertest.NewCondition().Address()
	drained := ledgertest.NewCondition().Address()
	assert.Nil(t, ctrl.CreateAccount(db, funded, alice, "BTC", 5))
	assert.Nil(t, ctrl.CreateAccount(db, drained, alice, "BTC", 0))
	assert.Nil(t, ctrl.DepositNative(db, drained, 33))

	assert.IsErr(t, errors.ErrUnauthorized, ctrl.CloseAccount(db, bob, drained, bob))
	assert.IsErr(t, ErrNonEmptyAccount, ctrl.CloseAccount(db, alice, funded, alice))

	assert.Nil(t, ctrl.CloseAccount(db, alice, drained, bob))
	ok, err := ctrl.HasAccount(db, drained)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	// The native deposit of the closed account went to the recipient.
	dep, err := ctrl.NativeBalance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(33), dep)

	assert.IsErr(t, ErrNoAccount, ctrl.CloseAccount(db, alice, drained, bob))
}

func TestControllerRentExemption(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	assert.Nil(t, SaveConfiguration(db, &Configuration{MinimumBalance: 40}))

	addr := ledgertest.NewCondition().Address()

	exempt, err := ctrl.IsRentExempt(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, false, exempt)

	assert.Nil(t, ctrl.DepositNative(db, addr, 39))
	exempt, err = ctrl.IsRentExempt(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, false, exempt)

	assert.Nil(t, ctrl.DepositNative(db, addr, 1))
	exempt, err = ctrl.IsRentExempt(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, true, exempt)
}

func TestControllerReclaimDeposit(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := ledgertest.NewCondition().Address()
	dst := ledgertest.NewCondition().Address()
	assert.Nil(t, ctrl.DepositNative(db, src, 50))
	assert.Nil(t, ctrl.DepositNative(db, dst, 7))

	assert.Nil(t, ctrl.ReclaimDeposit(db, src, dst))

	have, err := ctrl.NativeBalance(db, src)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), have)
	have, err = ctrl.NativeBalance(db, dst)
	assert.Nil(t, err)
	assert.Equal(t, uint64(57), have)

	// Reclaiming an empty deposit is a no-op.
	assert.Nil(t, ctrl.ReclaimDeposit(db, src, dst))
}

func TestControllerCreateAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := ledgertest.NewCondition().Address()
	acct := ledgertest.NewCondition().Address()

	assert.IsErr(t, ErrNoAccount, func() error {
		_, err := ctrl.GetAccount(db, acct)
		return err
	}())

	assert.Nil(t, ctrl.CreateAccount(db, acct, alice, "BTC", 10))
	assert.IsErr(t, ErrAccountExists, ctrl.CreateAccount(db, acct, alice, "BTC", 10))

	b, err := ctrl.Balance(db, acct)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), b)
}

func TestControllerIssueTokens(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	alice := ledgertest.NewCondition().Address()
	acct := ledgertest.NewCondition().Address()
	assert.Nil(t, ctrl.CreateAccount(db, acct, alice, "BTC", 10))

	assert.IsErr(t, errors.ErrAmount, ctrl.IssueTokens(db, acct, 0))
	assert.IsErr(t, ErrNoAccount, ctrl.IssueTokens(db, ledgertest.NewCondition().Address(), 5))

	assert.Nil(t, ctrl.IssueTokens(db, acct, 5))
	b, err := ctrl.Balance(db, acct)
	assert.Nil(t, err)
	assert.Equal(t, uint64(15), b)
}
