// Package mongo implements the store interfaces on MongoDB. Each card and
// each user is one document, so the driver's single-document atomicity
// covers every write, and ReplaceOne filtered on the version field provides
// the optimistic concurrency check.
package mongo
