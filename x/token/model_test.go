package token

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/ledgertest"
	"github.com/ledgernet/ledger/ledgertest/assert"
	"github.com/ledgernet/ledger/store"
)

func TestAssetValidate(t *testing.T) {
	cases := map[string]struct {
		asset   Asset
		wantErr *errors.Error
	}{
		"three letters":  {asset: "BTC"},
		"four letters":   {asset: "WETH"},
		"empty":          {asset: "", wantErr: errors.ErrInput},
		"too short":      {asset: "AB", wantErr: errors.ErrInput},
		"too long":       {asset: "TOKEN", wantErr: errors.ErrInput},
		"lower case":     {asset: "btc", wantErr: errors.ErrInput},
		"with digits":    {asset: "TK9", wantErr: errors.ErrInput},
		"with separator": {asset: "A-B", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.asset.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAccountLayout(t *testing.T) {
	authority := ledgertest.NewCondition().Address()
	a := Account{
		Authority: authority,
		Asset:     "BTC",
		Balance:   0x0102030405060708,
	}
	raw, err := a.Marshal()
	assert.Nil(t, err)

	assert.Equal(t, accountSize, len(raw))
	if !bytes.Equal(authority, raw[:20]) {
		t.Fatal("authority not at its fixed offset")
	}
	// Short tickers are zero padded to the field width.
	assert.Equal(t, []byte{'B', 'T', 'C', 0}, raw[20:24])
	assert.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(raw[24:]))

	var loaded Account
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, a, loaded)
}

func TestAccountUnmarshalRejectsWrongSize(t *testing.T) {
	for _, size := range []int{0, accountSize - 1, accountSize + 1} {
		var a Account
		assert.IsErr(t, errors.ErrInput, a.Unmarshal(make([]byte, size)))
	}
}

func TestConfigurationRoundTrip(t *testing.T) {
	db := store.MemStore()

	if _, err := LoadConfiguration(db); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	assert.IsErr(t, errors.ErrAmount, SaveConfiguration(db, &Configuration{}))

	assert.Nil(t, SaveConfiguration(db, &Configuration{MinimumBalance: 42}))
	conf, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(42), conf.MinimumBalance)
}
