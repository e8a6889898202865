// Package store defines interfaces for deck and game-result persistence.
// These interfaces abstract the underlying data storage mechanism from
// the game engine and services, which only see domain types.
package store
