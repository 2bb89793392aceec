// Package store defines the record store contract shared by the task and
// person services. Implementations never generate ids.
package store

import "context"

// Store is a keyed collection of records.
// The bool results report whether the id precondition held; the error
// result is reserved for backend failures.
type Store[K comparable, R any] interface {
	// Insert adds r. It returns false if a record with the same id exists.
	Insert(ctx context.Context, r R) (bool, error)
	// Update replaces the record with r's id. It returns false if absent.
	Update(ctx context.Context, r R) (bool, error)
	// Delete removes the record with id. It returns false if absent.
	Delete(ctx context.Context, id K) (bool, error)
	FindByID(ctx context.Context, id K) (R, bool, error)
	// FindAll returns every record in no particular order.
	FindAll(ctx context.Context) ([]R, error)
}

// KeyFunc extracts the id of a record.
type KeyFunc[K comparable, R any] func(R) K
