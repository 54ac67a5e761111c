package ledger

// Handler is a core engine that can process a few specific messages.
// This could represent "initialize an escrow", or "complete an exchange".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls with middleware.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult captures any non-error response from validating a
// transaction without applying it.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created
	// entity.
	Data []byte

	// Log is human-readable informational string.
	Log string

	// GasAllocated is the cost the operation is expected to charge when
	// delivered.
	GasAllocated int64
}

// DeliverResult captures any non-error response from applying a
// transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created
	// entity.
	Data []byte

	// Log is human-readable informational string.
	Log string
}
