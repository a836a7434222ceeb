// Package domain contains the card aggregate, its embedded value objects
// (move data, combos, ratings, tags, reactions) and the user's bookmark set.
//
// Entities are plain data. Every mutation is a free function operating on
// that data, so services can re-apply it after an optimistic-concurrency
// conflict without side effects.
package domain
