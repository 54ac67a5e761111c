package app

import (
	"testing"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/ledgertest/assert"
)

type countingHandler struct {
	checked   int
	delivered int
	err       error
}

var _ ledger.Handler = (*countingHandler)(nil)

func (h *countingHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	h.checked++
	if h.err != nil {
		return nil, h.err
	}
	return &ledger.CheckResult{}, nil
}

func (h *countingHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	h.delivered++
	if h.err != nil {
		return nil, h.err
	}
	return &ledger.DeliverResult{}, nil
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	h := &countingHandler{}
	r.Handle("test/good", h)

	got, err := r.Handler("test/good")
	assert.Nil(t, err)
	assert.Equal(t, ledger.Handler(h), got)

	if _, err := r.Handler("test/missing"); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestRouterRejectsBadRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &countingHandler{})

	assert.Panics(t, func() {
		r.Handle("test/good", &countingHandler{})
	})
	assert.Panics(t, func() {
		r.Handle("bad path!", &countingHandler{})
	})
	assert.Panics(t, func() {
		r.Handle("", &countingHandler{})
	})
}
