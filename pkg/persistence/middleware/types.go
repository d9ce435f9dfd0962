// Package middleware wraps session stores with encryption and PII masking.
package middleware

import "github.com/aretw0/pageflow/pkg/ports"

// Middleware allows wrapping a ContextStore to add behavior.
type Middleware func(ports.ContextStore) ports.ContextStore

// Chain applies the middlewares to store. The first one is the outermost.
func Chain(store ports.ContextStore, mws ...Middleware) ports.ContextStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
