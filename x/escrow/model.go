package escrow

import (
	"encoding/binary"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/orm"
)

const (
	// recordSize is the exact serialized size of an Escrow record:
	// one flag byte, three addresses and a little endian amount.
	recordSize = 1 + 3*20 + 8

	flagOffset      = 0
	initializerOff  = 1
	tempAccountOff  = 21
	receivingOff    = 41
	expectedAmtOff  = 61
)

// Escrow is the persistent state of a single pending swap, stored under
// the address of its record account.
type Escrow struct {
	// Initialized marks the record as live. A record with the flag unset
	// never leaves the store; the field exists so that the serialized
	// form can distinguish a zeroed slot from a live one.
	Initialized bool

	// Initializer is the identity that opened the escrow and may cancel
	// it. It also receives the counter payment.
	Initializer ledger.Address

	// TempAccount is the token account holding the locked funds, owned
	// by the derived module authority for the lifetime of the escrow.
	TempAccount ledger.Address

	// ReceivingAccount is the initializer's token account that the taker
	// payment is credited to.
	ReceivingAccount ledger.Address

	// ExpectedAmount is the exact payment the taker must make.
	ExpectedAmount uint64
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	if !e.Initialized {
		return errors.Wrap(errors.ErrState, "record not initialized")
	}
	if err := e.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := e.TempAccount.Validate(); err != nil {
		return errors.Wrap(err, "temp account")
	}
	if err := e.ReceivingAccount.Validate(); err != nil {
		return errors.Wrap(err, "receiving account")
	}
	if e.ExpectedAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "expected amount must be positive")
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, recordSize)
	raw[flagOffset] = 1
	copy(raw[initializerOff:], e.Initializer)
	copy(raw[tempAccountOff:], e.TempAccount)
	copy(raw[receivingOff:], e.ReceivingAccount)
	binary.LittleEndian.PutUint64(raw[expectedAmtOff:], e.ExpectedAmount)
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != recordSize {
		return errors.Wrapf(errors.ErrInput, "invalid record size %d", len(raw))
	}
	switch raw[flagOffset] {
	case 0:
		e.Initialized = false
	case 1:
		e.Initialized = true
	default:
		return errors.Wrapf(errors.ErrInput, "invalid record flag %d", raw[flagOffset])
	}
	e.Initializer = ledger.Address(raw[initializerOff:tempAccountOff]).Clone()
	e.TempAccount = ledger.Address(raw[tempAccountOff:receivingOff]).Clone()
	e.ReceivingAccount = ledger.Address(raw[receivingOff:expectedAmtOff]).Clone()
	e.ExpectedAmount = binary.LittleEndian.Uint64(raw[expectedAmtOff:])
	return nil
}

// NewBucket returns a bucket to maintain escrow records.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc")
}

// AuthorityCondition returns the condition of the keyless authority that
// owns locked temp accounts for the given program deployment. No private
// key can ever satisfy it, so funds under its address can only move when
// this module signs on its behalf.
func AuthorityCondition(program ledger.Address) ledger.Condition {
	return ledger.NewCondition("escrow", "authority", program)
}

// ProgramCondition returns the identity condition of an escrow program
// deployment with the given label.
func ProgramCondition(label string) ledger.Condition {
	return ledger.NewCondition("escrow", "program", []byte(label))
}
