// Package app wires messages to handlers and executes every transaction
// as a single atomic unit against a cache-wrapped store.
package app

import (
	"fmt"
	"regexp"

	"github.com/ledgernet/ledger"
	"github.com/ledgernet/ledger/errors"
)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/\-]+$`).MatchString

// Router maps message paths to handlers.
type Router struct {
	routes map[string]ledger.Handler
}

var _ ledger.Registry = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]ledger.Handler),
	}
}

// Handle registers a handler for the given path. It panics if a handler
// is already registered under the path, because this is a setup time
// programmer error.
func (r *Router) Handle(path string, h ledger.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("double registration of path: %q", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path, or an ErrNotFound
// error when no handler was registered.
func (r *Router) Handler(path string) (ledger.Handler, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", path)
	}
	return h, nil
}
