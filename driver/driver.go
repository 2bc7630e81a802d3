// Package driver defines the transactional key-value interface that the
// node store is built on, together with the operation, predicate and
// response types exchanged with a backend.
package driver

import (
	"context"
)

//go:generate go tool minimock -i Driver -o ../internal/mocks/driver_mock.go -n DriverMock -p mocks

// Driver is the interface that key-value backends must implement.
type Driver interface {
	// Execute runs a conditional transaction. When every predicate holds,
	// thenOps are applied, otherwise elseOps. The whole call is atomic.
	Execute(
		ctx context.Context,
		predicates []Predicate,
		thenOps []Operation,
		elseOps []Operation,
	) (Response, error)
}

// KeyValue is a stored key with its value and last modification revision.
type KeyValue struct {
	// Key is the full storage key.
	Key []byte
	// Value is the stored payload.
	Value []byte
	// ModRevision is the revision of the last modification of this key.
	ModRevision int64
}

// Result holds the key-values produced by one operation.
type Result struct {
	// Values is filled for Get operations, and for Delete operations with
	// the removed key-values.
	Values []KeyValue
}

// Response is the outcome of Execute.
type Response struct {
	// Succeeded reports whether the predicates held.
	Succeeded bool
	// Results has one entry per executed operation, in order.
	Results []Result
}
