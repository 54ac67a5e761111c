package app

import (
	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

// Dispatcher executes transactions against a cache-wrapped store so that
// either every effect of an operation is applied or none is. Handlers
// never see the committed store directly.
type Dispatcher struct {
	router *Router
}

// NewDispatcher wraps a fully configured router.
func NewDispatcher(router *Router) *Dispatcher {
	return &Dispatcher{router: router}
}

// Check validates the transaction against a scratch copy of the state.
// Any writes a handler performs during Check are always discarded.
func (d *Dispatcher) Check(ctx ledger.Context, db ledger.CacheableKVStore, tx ledger.Tx) (res *ledger.CheckResult, err error) {
	defer errors.Recover(&err)

	h, err := d.handler(tx)
	if err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	defer cache.Discard()

	return h.Check(ctx, cache, tx)
}

// Deliver executes the transaction. On success all staged writes are
// committed to the backing store as one unit; on any failure they are
// discarded and the state is left untouched.
func (d *Dispatcher) Deliver(ctx ledger.Context, db ledger.CacheableKVStore, tx ledger.Tx) (res *ledger.DeliverResult, err error) {
	defer errors.Recover(&err)

	h, err := d.handler(tx)
	if err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	res, err = h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return res, nil
}

func (d *Dispatcher) handler(tx ledger.Tx) (ledger.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "get msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return d.router.Handler(msg.Path())
}
