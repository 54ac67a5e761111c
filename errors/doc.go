/*
Package errors implements the coded errors used across the ledger.

The idea is to reuse as many errors from this package as possible and
declare extension specific errors only when necessary. Each root error
carries a numeric code so that clients can reliably distinguish failure
kinds without parsing messages.

To declare a custom root error use Register(code, description). Error
codes below 1000 are reserved for this package. To test whether any
(possibly wrapped) error originates from a given root, use the root's Is
method:

	if escrow.ErrRecordNotFound.Is(err) { ... }

Stack traces are attached at the innermost Wrap call. Use
fmt.Printf("%+v", err) to print the full trace.
*/
package errors
