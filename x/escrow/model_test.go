package escrow

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/ledgertest"
	"github.com/ledgernet/ledger/ledgertest/assert"
)

func TestEscrowRecordLayout(t *testing.T) {
	initializer := ledgertest.NewCondition().Address()
	temp := ledgertest.NewCondition().Address()
	receiving := ledgertest.NewCondition().Address()

	e := Escrow{
		Initialized:      true,
		Initializer:      initializer,
		TempAccount:      temp,
		ReceivingAccount: receiving,
		ExpectedAmount:   0xabcdef0102030405,
	}
	raw, err := e.Marshal()
	assert.Nil(t, err)

	// The record layout is part of the storage contract and must be
	// byte stable.
	assert.Equal(t, recordSize, len(raw))
	assert.Equal(t, byte(1), raw[0])
	if !bytes.Equal(initializer, raw[1:21]) {
		t.Fatal("initializer not at its fixed offset")
	}
	if !bytes.Equal(temp, raw[21:41]) {
		t.Fatal("temp account not at its fixed offset")
	}
	if !bytes.Equal(receiving, raw[41:61]) {
		t.Fatal("receiving account not at its fixed offset")
	}
	assert.Equal(t, uint64(0xabcdef0102030405), binary.LittleEndian.Uint64(raw[61:]))

	var loaded Escrow
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, e, loaded)
}

func TestEscrowUnmarshalRejectsGarbage(t *testing.T) {
	cases := map[string]struct {
		raw []byte
	}{
		"empty":        {raw: nil},
		"short":        {raw: make([]byte, recordSize-1)},
		"long":         {raw: make([]byte, recordSize+1)},
		"invalid flag": {raw: append([]byte{7}, make([]byte, recordSize-1)...)},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var e Escrow
			assert.IsErr(t, errors.ErrInput, e.Unmarshal(tc.raw))
		})
	}
}

func TestEscrowValidate(t *testing.T) {
	valid := func() Escrow {
		return Escrow{
			Initialized:      true,
			Initializer:      ledgertest.NewCondition().Address(),
			TempAccount:      ledgertest.NewCondition().Address(),
			ReceivingAccount: ledgertest.NewCondition().Address(),
			ExpectedAmount:   100,
		}
	}

	cases := map[string]struct {
		mod     func(*Escrow)
		wantErr *errors.Error
	}{
		"valid": {
			mod: func(*Escrow) {},
		},
		"not initialized": {
			mod:     func(e *Escrow) { e.Initialized = false },
			wantErr: errors.ErrState,
		},
		"zero amount": {
			mod:     func(e *Escrow) { e.ExpectedAmount = 0 },
			wantErr: errors.ErrAmount,
		},
		"bad initializer": {
			mod:     func(e *Escrow) { e.Initializer = nil },
			wantErr: errors.ErrInput,
		},
		"bad temp account": {
			mod:     func(e *Escrow) { e.TempAccount = ledger.Address("x") },
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := valid()
			tc.mod(&e)
			if err := e.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAuthorityConditionDerivation(t *testing.T) {
	program := ProgramCondition("main").Address()

	// Stable: the same program always derives the same authority, so any
	// observer can recompute it.
	a := AuthorityCondition(program).Address()
	b := AuthorityCondition(program).Address()
	assert.Equal(t, a, b)
	assert.Nil(t, a.Validate())

	// Distinct deployments get distinct authorities.
	other := AuthorityCondition(ProgramCondition("other").Address()).Address()
	if a.Equals(other) {
		t.Fatal("authorities of distinct programs must differ")
	}

	// The authority must not collide with the program identity itself.
	if a.Equals(program) {
		t.Fatal("authority must differ from the program address")
	}
}
