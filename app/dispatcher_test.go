package app

import (
	"context"
	"testing"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
	"github.com/ledgernet/ledger/ledgertest"
	"github.com/ledgernet/ledger/ledgertest/assert"
	"github.com/ledgernet/ledger/store"
)

// writingHandler writes a key and optionally fails afterwards, so tests
// can observe whether partial writes leak out of the dispatcher.
type writingHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ ledger.Handler = writingHandler{}

func (h writingHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &ledger.DeliverResult{Data: h.value}, nil
}

func testTx(path string) ledger.Tx {
	return &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: path}}
}

func TestDispatcherCheckNeverPersists(t *testing.T) {
	r := NewRouter()
	r.Handle("test/write", writingHandler{key: []byte("k"), value: []byte("v")})
	d := NewDispatcher(r)
	db := store.MemStore()

	_, err := d.Check(context.Background(), db, testTx("test/write"))
	assert.Nil(t, err)

	ok, err := db.Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestDispatcherDeliverCommits(t *testing.T) {
	r := NewRouter()
	r.Handle("test/write", writingHandler{key: []byte("k"), value: []byte("v")})
	d := NewDispatcher(r)
	db := store.MemStore()

	res, err := d.Deliver(context.Background(), db, testTx("test/write"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), res.Data)

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestDispatcherDeliverRollsBackOnFailure(t *testing.T) {
	r := NewRouter()
	r.Handle("test/fail", writingHandler{
		key:   []byte("k"),
		value: []byte("v"),
		err:   errors.ErrState.New("broken"),
	})
	d := NewDispatcher(r)
	db := store.MemStore()

	if _, err := d.Deliver(context.Background(), db, testTx("test/fail")); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	// The write from the failed delivery must not be visible.
	ok, err := db.Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestDispatcherUnknownPath(t *testing.T) {
	d := NewDispatcher(NewRouter())
	db := store.MemStore()

	if _, err := d.Deliver(context.Background(), db, testTx("test/missing")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

type panicingHandler struct{}

var _ ledger.Handler = panicingHandler{}

func (panicingHandler) Check(ledger.Context, ledger.KVStore, ledger.Tx) (*ledger.CheckResult, error) {
	panic("check exploded")
}

func (panicingHandler) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (*ledger.DeliverResult, error) {
	panic("deliver exploded")
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	r := NewRouter()
	r.Handle("test/panic", panicingHandler{})
	d := NewDispatcher(r)
	db := store.MemStore()

	if _, err := d.Check(context.Background(), db, testTx("test/panic")); !errors.ErrPanic.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if _, err := d.Deliver(context.Background(), db, testTx("test/panic")); !errors.ErrPanic.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
