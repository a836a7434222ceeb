// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// Cards and users are stored one row per entity, with embedded sequences
// (move data, ratings, tags, bookmarks) held in JSONB columns. The schema is
// managed by the goose migrations embedded in this package.
package postgres
