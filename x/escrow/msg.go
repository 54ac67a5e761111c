package escrow

import (
	"encoding/binary"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

// Instruction tags. The tag byte leads every instruction buffer and
// selects the operation.
const (
	TagInitialize byte = 0
	TagExchange   byte = 1
	TagCancel     byte = 2
)

const (
	pathInitialize = "escrow/initialize"
	pathExchange   = "escrow/exchange"
	pathCancel     = "escrow/cancel"

	// amountSize is the width of the little endian amount that follows
	// the tag on amount bearing instructions.
	amountSize = 8

	// metaSize is the serialized width of one account reference: the
	// address followed by a flag byte.
	metaSize = 21

	flagSigner   byte = 0x01
	flagWritable byte = 0x02
)

// EncodeInstruction builds the raw instruction buffer for the given tag.
// The amount is ignored for TagCancel.
func EncodeInstruction(tag byte, amount uint64) []byte {
	switch tag {
	case TagInitialize, TagExchange:
		raw := make([]byte, 1+amountSize)
		raw[0] = tag
		binary.LittleEndian.PutUint64(raw[1:], amount)
		return raw
	default:
		return []byte{tag}
	}
}

// DecodeInstruction splits a raw instruction buffer into its tag and, for
// the amount bearing operations, the little endian amount.
func DecodeInstruction(raw []byte) (byte, uint64, error) {
	if len(raw) == 0 {
		return 0, 0, errors.Wrap(ErrMalformedInstruction, "empty buffer")
	}
	tag := raw[0]
	switch tag {
	case TagInitialize, TagExchange:
		if len(raw) != 1+amountSize {
			return 0, 0, errors.Wrapf(ErrMalformedInstruction, "amount field: want %d bytes, got %d", 1+amountSize, len(raw))
		}
		return tag, binary.LittleEndian.Uint64(raw[1:]), nil
	case TagCancel:
		if len(raw) != 1 {
			return 0, 0, errors.Wrapf(ErrMalformedInstruction, "trailing bytes after cancel tag")
		}
		return tag, 0, nil
	default:
		return 0, 0, errors.Wrapf(ErrMalformedInstruction, "unknown tag %d", tag)
	}
}

// ParseMsg decodes an instruction buffer together with its ordered
// account list into the message it represents. The account list length
// and per position flags are enforced here, before any handler sees the
// message.
func ParseMsg(instruction []byte, accounts []ledger.AccountMeta) (ledger.Msg, error) {
	tag, amount, err := DecodeInstruction(instruction)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagInitialize:
		if len(accounts) != 6 {
			return nil, errors.Wrapf(ErrMalformedInstruction, "initialize wants 6 accounts, got %d", len(accounts))
		}
		msg := &InitializeMsg{
			Amount:           amount,
			Initializer:      accounts[0],
			TempAccount:      accounts[1],
			ReceivingAccount: accounts[2],
			RecordAccount:    accounts[3],
			RentOracle:       accounts[4],
			TokenModule:      accounts[5],
		}
		return msg, msg.Validate()
	case TagExchange:
		if len(accounts) != 10 {
			return nil, errors.Wrapf(ErrMalformedInstruction, "exchange wants 10 accounts, got %d", len(accounts))
		}
		msg := &ExchangeMsg{
			Amount:               amount,
			Taker:                accounts[0],
			PaymentAccount:       accounts[1],
			TakerReceiving:       accounts[2],
			InitializerAccount:   accounts[3],
			TempAccount:          accounts[4],
			InitializerReceiving: accounts[5],
			RecordAccount:        accounts[6],
			DepositRecipient:     accounts[7],
			TokenModule:          accounts[8],
			Authority:            accounts[9],
		}
		return msg, msg.Validate()
	case TagCancel:
		if len(accounts) != 6 {
			return nil, errors.Wrapf(ErrMalformedInstruction, "cancel wants 6 accounts, got %d", len(accounts))
		}
		msg := &CancelMsg{
			Initializer:   accounts[0],
			TempAccount:   accounts[1],
			RefundAccount: accounts[2],
			RecordAccount: accounts[3],
			TokenModule:   accounts[4],
			Authority:     accounts[5],
		}
		return msg, msg.Validate()
	default:
		return nil, errors.Wrapf(ErrMalformedInstruction, "unknown tag %d", tag)
	}
}

// InitializeMsg opens a new escrow. The initializer hands the funded temp
// account over to the derived authority and records the counter payment
// it expects.
type InitializeMsg struct {
	Amount           uint64
	Initializer      ledger.AccountMeta
	TempAccount      ledger.AccountMeta
	ReceivingAccount ledger.AccountMeta
	RecordAccount    ledger.AccountMeta
	RentOracle       ledger.AccountMeta
	TokenModule      ledger.AccountMeta
}

var _ ledger.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitialize
}

func (m *InitializeMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "expected amount must be positive")
	}
	if !m.Initializer.Signer {
		return errors.Wrap(ErrMissingSignature, "initializer")
	}
	for _, a := range []struct {
		name     string
		meta     ledger.AccountMeta
		writable bool
	}{
		{"initializer", m.Initializer, false},
		{"temp account", m.TempAccount, true},
		{"receiving account", m.ReceivingAccount, false},
		{"record account", m.RecordAccount, true},
		{"rent oracle", m.RentOracle, false},
		{"token module", m.TokenModule, false},
	} {
		if err := a.meta.Validate(); err != nil {
			return errors.Wrap(err, a.name)
		}
		if a.writable && !a.meta.Writable {
			return errors.Wrapf(errors.ErrInput, "%s must be writable", a.name)
		}
	}
	return nil
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return appendMetas(EncodeInstruction(TagInitialize, m.Amount),
		m.Initializer, m.TempAccount, m.ReceivingAccount,
		m.RecordAccount, m.RentOracle, m.TokenModule), nil
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	parsed, err := parseAs(raw, 1+amountSize, m)
	if err != nil {
		return err
	}
	*m = *parsed.(*InitializeMsg)
	return nil
}

// ExchangeMsg completes an escrow. The taker pays the recorded amount
// and receives the full temp account balance in return.
type ExchangeMsg struct {
	Amount               uint64
	Taker                ledger.AccountMeta
	PaymentAccount       ledger.AccountMeta
	TakerReceiving       ledger.AccountMeta
	InitializerAccount   ledger.AccountMeta
	TempAccount          ledger.AccountMeta
	InitializerReceiving ledger.AccountMeta
	RecordAccount        ledger.AccountMeta
	DepositRecipient     ledger.AccountMeta
	TokenModule          ledger.AccountMeta
	Authority            ledger.AccountMeta
}

var _ ledger.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string {
	return pathExchange
}

func (m *ExchangeMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "offered amount must be positive")
	}
	if !m.Taker.Signer {
		return errors.Wrap(ErrMissingSignature, "taker")
	}
	for _, a := range []struct {
		name     string
		meta     ledger.AccountMeta
		writable bool
	}{
		{"taker", m.Taker, false},
		{"payment account", m.PaymentAccount, true},
		{"taker receiving account", m.TakerReceiving, true},
		{"initializer account", m.InitializerAccount, false},
		{"temp account", m.TempAccount, true},
		{"initializer receiving account", m.InitializerReceiving, true},
		{"record account", m.RecordAccount, true},
		{"deposit recipient", m.DepositRecipient, true},
		{"token module", m.TokenModule, false},
		{"authority", m.Authority, false},
	} {
		if err := a.meta.Validate(); err != nil {
			return errors.Wrap(err, a.name)
		}
		if a.writable && !a.meta.Writable {
			return errors.Wrapf(errors.ErrInput, "%s must be writable", a.name)
		}
	}
	return nil
}

func (m *ExchangeMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return appendMetas(EncodeInstruction(TagExchange, m.Amount),
		m.Taker, m.PaymentAccount, m.TakerReceiving,
		m.InitializerAccount, m.TempAccount, m.InitializerReceiving,
		m.RecordAccount, m.DepositRecipient, m.TokenModule,
		m.Authority), nil
}

func (m *ExchangeMsg) Unmarshal(raw []byte) error {
	parsed, err := parseAs(raw, 1+amountSize, m)
	if err != nil {
		return err
	}
	*m = *parsed.(*ExchangeMsg)
	return nil
}

// CancelMsg aborts an escrow and hands the locked funds back to the
// initializer.
type CancelMsg struct {
	Initializer   ledger.AccountMeta
	TempAccount   ledger.AccountMeta
	RefundAccount ledger.AccountMeta
	RecordAccount ledger.AccountMeta
	TokenModule   ledger.AccountMeta
	Authority     ledger.AccountMeta
}

var _ ledger.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancel
}

func (m *CancelMsg) Validate() error {
	if !m.Initializer.Signer {
		return errors.Wrap(ErrMissingSignature, "initializer")
	}
	for _, a := range []struct {
		name     string
		meta     ledger.AccountMeta
		writable bool
	}{
		{"initializer", m.Initializer, false},
		{"temp account", m.TempAccount, true},
		{"refund account", m.RefundAccount, true},
		{"record account", m.RecordAccount, true},
		{"token module", m.TokenModule, false},
		{"authority", m.Authority, false},
	} {
		if err := a.meta.Validate(); err != nil {
			return errors.Wrap(err, a.name)
		}
		if a.writable && !a.meta.Writable {
			return errors.Wrapf(errors.ErrInput, "%s must be writable", a.name)
		}
	}
	return nil
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return appendMetas(EncodeInstruction(TagCancel, 0),
		m.Initializer, m.TempAccount, m.RefundAccount,
		m.RecordAccount, m.TokenModule, m.Authority), nil
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	parsed, err := parseAs(raw, 1, m)
	if err != nil {
		return err
	}
	*m = *parsed.(*CancelMsg)
	return nil
}

func appendMetas(raw []byte, metas ...ledger.AccountMeta) []byte {
	for _, m := range metas {
		buf := make([]byte, metaSize)
		copy(buf, m.Address)
		if m.Signer {
			buf[metaSize-1] |= flagSigner
		}
		if m.Writable {
			buf[metaSize-1] |= flagWritable
		}
		raw = append(raw, buf...)
	}
	return raw
}

// parseAs decodes a serialized message and ensures it is of the same
// concrete type as want. instrSize is the instruction prefix length for
// the expected tag.
func parseAs(raw []byte, instrSize int, want ledger.Msg) (ledger.Msg, error) {
	if len(raw) < instrSize {
		return nil, errors.Wrap(ErrMalformedInstruction, "truncated buffer")
	}
	metas, err := parseMetas(raw[instrSize:])
	if err != nil {
		return nil, err
	}
	msg, err := ParseMsg(raw[:instrSize], metas)
	if err != nil {
		return nil, err
	}
	if msg.Path() != want.Path() {
		return nil, errors.Wrapf(ErrMalformedInstruction, "decoded %q, want %q", msg.Path(), want.Path())
	}
	return msg, nil
}

func parseMetas(raw []byte) ([]ledger.AccountMeta, error) {
	if len(raw)%metaSize != 0 {
		return nil, errors.Wrapf(ErrMalformedInstruction, "account list size %d", len(raw))
	}
	metas := make([]ledger.AccountMeta, 0, len(raw)/metaSize)
	for len(raw) > 0 {
		flags := raw[metaSize-1]
		if flags&^(flagSigner|flagWritable) != 0 {
			return nil, errors.Wrapf(ErrMalformedInstruction, "unknown account flags %#x", flags)
		}
		metas = append(metas, ledger.AccountMeta{
			Address:  ledger.Address(raw[:metaSize-1]).Clone(),
			Signer:   flags&flagSigner != 0,
			Writable: flags&flagWritable != 0,
		})
		raw = raw[metaSize:]
	}
	return metas, nil
}
