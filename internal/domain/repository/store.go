package repository

import "context"

// Collection is the whole-collection contract every entity store honours:
// read everything, or replace everything in one step.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	ReplaceAll(ctx context.Context, items []T) error
}

// Transactor runs fn inside a single storage transaction. Repositories
// called with the ctx passed to fn take part in that transaction; if fn
// returns an error nothing it wrote is kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
