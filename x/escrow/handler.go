package escrow

import (
	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/orm"
	"github.com/ledgernet/ledger/x"
	"github.com/ledgernet/ledger/x/token"
)

const (
	initializeCost int64 = 300
	exchangeCost   int64 = 500
	cancelCost     int64 = 200
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The program address identifies this deployment and seeds the
// derived authority.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl token.Controller, program ledger.Address) {
	bucket := NewBucket()
	authority := AuthorityCondition(program).Address()
	r.Handle(pathInitialize, InitializeHandler{
		auth:      auth,
		ctrl:      ctrl,
		bucket:    bucket,
		authority: authority,
	})
	r.Handle(pathExchange, ExchangeHandler{
		auth:      auth,
		ctrl:      ctrl,
		bucket:    bucket,
		authority: authority,
	})
	r.Handle(pathCancel, CancelHandler{
		auth:      auth,
		ctrl:      ctrl,
		bucket:    bucket,
		authority: authority,
	})
}

// InitializeHandler opens a new escrow: it moves the temp account under
// the derived authority and persists the record.
type InitializeHandler struct {
	auth      x.Authenticator
	ctrl      token.Controller
	bucket    orm.ModelBucket
	authority ledger.Address
}

var _ ledger.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: initializeCost}, nil
}

func (h InitializeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	initializer := msg.Initializer.Address
	if err := h.ctrl.SetAuthority(db, initializer, msg.TempAccount.Address, h.authority); err != nil {
		return nil, errors.Wrap(err, "lock temp account")
	}

	record := &Escrow{
		Initialized:      true,
		Initializer:      initializer,
		TempAccount:      msg.TempAccount.Address,
		ReceivingAccount: msg.ReceivingAccount.Address,
		ExpectedAmount:   msg.Amount,
	}
	if err := h.bucket.Put(db, msg.RecordAccount.Address, record); err != nil {
		return nil, errors.Wrap(err, "save record")
	}
	return &ledger.DeliverResult{Data: msg.RecordAccount.Address}, nil
}

// validate performs all precondition checks without touching state, so
// that Check and Deliver agree on what is acceptable.
func (h InitializeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer.Address) {
		return nil, errors.Wrap(ErrMissingSignature, "initializer")
	}
	if !msg.TokenModule.Address.Equals(token.ModuleCondition.Address()) {
		return nil, errors.Wrap(ErrInvalidAccountOwner, "token module reference")
	}
	if !msg.RentOracle.Address.Equals(token.RentCondition.Address()) {
		return nil, errors.Wrap(ErrInvalidAccountOwner, "rent oracle reference")
	}
	for _, acct := range []struct {
		name string
		addr ledger.Address
	}{
		{"temp account", msg.TempAccount.Address},
		{"receiving account", msg.ReceivingAccount.Address},
	} {
		ok, err := h.ctrl.HasAccount(db, acct.addr)
		if err != nil {
			return nil, errors.Wrap(err, acct.name)
		}
		if !ok {
			return nil, errors.Wrapf(ErrInvalidAccountOwner, "%s is not a token account", acct.name)
		}
	}
	exempt, err := h.ctrl.IsRentExempt(db, msg.RecordAccount.Address)
	if err != nil {
		return nil, errors.Wrap(err, "rent check")
	}
	if !exempt {
		return nil, errors.Wrap(ErrNotRentExempt, "record account")
	}
	switch existing, err := h.bucket.Has(db, msg.RecordAccount.Address); {
	case err != nil:
		return nil, errors.Wrap(err, "record lookup")
	case existing:
		return nil, errors.Wrap(ErrAlreadyInitialized, "record account")
	}
	return &msg, nil
}

// ExchangeHandler settles an escrow: the taker pays the recorded amount
// and walks away with the locked funds, the temp account and the record
// are released.
type ExchangeHandler struct {
	auth      x.Authenticator
	ctrl      token.Controller
	bucket    orm.ModelBucket
	authority ledger.Address
}

var _ ledger.Handler = ExchangeHandler{}

func (h ExchangeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: exchangeCost}, nil
}

func (h ExchangeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	taker := msg.Taker.Address
	if err := h.ctrl.Transfer(db, taker, msg.PaymentAccount.Address, record.ReceivingAccount, record.ExpectedAmount); err != nil {
		return nil, errors.Wrap(err, "taker payment")
	}

	locked, err := h.ctrl.Balance(db, record.TempAccount)
	if err != nil {
		return nil, errors.Wrap(err, "temp balance")
	}
	if locked > 0 {
		if err := h.ctrl.Transfer(db, h.authority, record.TempAccount, msg.TakerReceiving.Address, locked); err != nil {
			return nil, errors.Wrap(err, "release locked funds")
		}
	}

	if err := h.ctrl.ReclaimDeposit(db, msg.RecordAccount.Address, record.Initializer); err != nil {
		return nil, errors.Wrap(err, "reclaim record deposit")
	}
	if err := h.bucket.Delete(db, msg.RecordAccount.Address); err != nil {
		return nil, errors.Wrap(err, "erase record")
	}
	if err := h.ctrl.CloseAccount(db, h.authority, record.TempAccount, taker); err != nil {
		return nil, errors.Wrap(err, "close temp account")
	}
	return &ledger.DeliverResult{Data: msg.RecordAccount.Address}, nil
}

func (h ExchangeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker.Address) {
		return nil, nil, errors.Wrap(ErrMissingSignature, "taker")
	}
	if !msg.TokenModule.Address.Equals(token.ModuleCondition.Address()) {
		return nil, nil, errors.Wrap(ErrInvalidAccountOwner, "token module reference")
	}
	if !msg.Authority.Address.Equals(h.authority) {
		return nil, nil, errors.Wrap(ErrInvalidAuthority, "derived authority")
	}

	var record Escrow
	if err := h.bucket.One(db, msg.RecordAccount.Address, &record); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrRecordNotFound, "record account")
		}
		return nil, nil, errors.Wrap(err, "record lookup")
	}
	if !record.Initialized {
		return nil, nil, errors.Wrap(ErrRecordNotFound, "record not live")
	}
	switch {
	case !msg.TempAccount.Address.Equals(record.TempAccount):
		return nil, nil, errors.Wrap(ErrAccountMismatch, "temp account")
	case !msg.InitializerAccount.Address.Equals(record.Initializer):
		return nil, nil, errors.Wrap(ErrAccountMismatch, "initializer account")
	case !msg.InitializerReceiving.Address.Equals(record.ReceivingAccount):
		return nil, nil, errors.Wrap(ErrAccountMismatch, "initializer receiving account")
	case !msg.DepositRecipient.Address.Equals(record.Initializer):
		return nil, nil, errors.Wrap(ErrAccountMismatch, "deposit recipient")
	}
	if msg.Amount != record.ExpectedAmount {
		return nil, nil, errors.Wrapf(ErrAmountMismatch, "offered %d, expected %d", msg.Amount, record.ExpectedAmount)
	}
	return &msg, &record, nil
}

// CancelHandler aborts an escrow on the initializer's request and hands
// the locked funds back.
type CancelHandler struct {
	auth      x.Authenticator
	ctrl      token.Controller
	bucket    orm.ModelBucket
	authority ledger.Address
}

var _ ledger.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: cancelCost}, nil
}

func (h CancelHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	locked, err := h.ctrl.Balance(db, record.TempAccount)
	if err != nil {
		return nil, errors.Wrap(err, "temp balance")
	}
	if locked > 0 {
		if err := h.ctrl.Transfer(db, h.authority, record.TempAccount, msg.RefundAccount.Address, locked); err != nil {
			return nil, errors.Wrap(err, "refund locked funds")
		}
	}

	if err := h.ctrl.ReclaimDeposit(db, msg.RecordAccount.Address, record.Initializer); err != nil {
		return nil, errors.Wrap(err, "reclaim record deposit")
	}
	if err := h.bucket.Delete(db, msg.RecordAccount.Address); err != nil {
		return nil, errors.Wrap(err, "erase record")
	}
	if err := h.ctrl.CloseAccount(db, h.authority, record.TempAccount, record.Initializer); err != nil {
		return nil, errors.Wrap(err, "close temp account")
	}
	return &ledger.DeliverResult{Data: msg.RecordAccount.Address}, nil
}

func (h CancelHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer.Address) {
		return nil, nil, errors.Wrap(ErrMissingSignature, "initializer")
	}
	if !msg.TokenModule.Address.Equals(token.ModuleCondition.Address()) {
		return nil, nil, errors.Wrap(ErrInvalidAccountOwner, "token module reference")
	}
	if !msg.Authority.Address.Equals(h.authority) {
		return nil, nil, errors.Wrap(ErrInvalidAuthority, "derived authority")
	}

	var record Escrow
	if err := h.bucket.One(db, msg.RecordAccount.Address, &record); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrRecordNotFound, "record account")
		}
		return nil, nil, errors.Wrap(err, "record lookup")
	}
	if !record.Initialized {
		return nil, nil, errors.Wrap(ErrRecordNotFound, "record not live")
	}
	if !msg.Initializer.Address.Equals(record.Initializer) {
		return nil, nil, errors.Wrap(ErrAccountMismatch, "initializer")
	}
	if !msg.TempAccount.Address.Equals(record.TempAccount) {
		return nil, nil, errors.Wrap(ErrAccountMismatch, "temp account")
	}
	return &msg, &record, nil
}
