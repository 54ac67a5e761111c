package ledger

import (
	"context"
	"reflect"

	"github.com/ledgernet/ledger/errors"
)

// Context is the context passed from the dispatcher, through middleware,
// into the handlers. Authentication info is carried here.
type Context = context.Context

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for the ledger to take an action (make a state
// transition). It is just the request, and must be validated by the
// Handlers. All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Validate performs stateless checks on the message content.
	Validate() error

	// Path returns the message path. It is used by the Router to locate
	// the proper Handler. Must be alphanumeric [0-9A-Za-z_\-]+.
	Path() string
}

// AccountMeta describes one account referenced by an operation, in the
// exact position the operation's account-list contract demands.
type AccountMeta struct {
	// Address identifies the account.
	Address Address

	// Signer is set when the transaction carries a valid signature of
	// this account. Verifying the signature itself is the job of the
	// surrounding authentication layer, not of any handler.
	Signer bool

	// Writable is set when the operation intends to mutate the account.
	Writable bool
}

// Validate ensures the referenced account is well formed.
func (m AccountMeta) Validate() error {
	return m.Address.Validate()
}

// Tx represents the data sent from the user to the chain. It includes the
// actual message, along with the ordered account list the message
// operates on. Authentication (signatures over the raw bytes) is handled
// outside of the handlers and surfaces through the Authenticator.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message from the transaction, validates it and
// writes it into the destination, which must be a pointer of the concrete
// message type.
func LoadMsg(tx Tx, dest Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrEmpty, "message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "validate msg")
	}

	d := reflect.ValueOf(dest)
	m := reflect.ValueOf(msg)
	if d.Type() != m.Type() {
		return errors.ErrType.Newf("want %T, got %T", dest, msg)
	}
	d.Elem().Set(m.Elem())
	return nil
}
