package session

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying store. Everything below the returned
// context (the console and the flows it drives) reaches the session through it.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// FromContext returns the store attached to ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(ctxKey{}).(*Store)
	return store, ok && store != nil
}

// MustFromContext returns the store attached to ctx and panics when there is none.
// Reaching for the session outside of a session-scoped context is a programming error.
func MustFromContext(ctx context.Context) *Store {
	store, ok := FromContext(ctx)
	if !ok {
		panic("session: store must be used within a session context")
	}
	return store
}
