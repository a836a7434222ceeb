// Package service holds the application use cases: card authoring,
// ratings, tag reactions, bookmarks, listings and accounts.
//
// Services depend on the store contracts in internal/store, never on a
// particular backend. Every mutation is an optimistic read-modify-write of a
// single document: the pure mutation from internal/domain is applied to a
// fresh copy and written back with the version that was read. A version
// conflict triggers a reload and another attempt, up to
// Options.MaxUpdateAttempts, after which ErrConflict is returned. Each
// store call is bounded by Options.OperationTimeout. Store outages
// (store.ErrUnavailable) are returned to the caller without retrying.
package service
