// Package store defines the persistence contracts for cards and users.
// Implementations live under internal/platform and must honor the
// optimistic version check on every Update so concurrent read-modify-write
// cycles never lose an update.
package store
