// Package tkv provides a Tarantool config storage driver implementation.
// It enables keeping node stores in a Tarantool cluster.
package tkv

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/tarantool/go-valuestore/driver"
)

// Driver is a Tarantool implementation of the driver interface.
// It uses the config.storage transaction API as the underlying backend.
type Driver struct {
	conn tarantool.Doer // Tarantool connection or pool adapter.
}

var (
	_ driver.Driver = &Driver{} //nolint:exhaustruct

	// ErrUnexpectedResponse is returned when the response from tarantool has unexpected format.
	ErrUnexpectedResponse = errors.New("unexpected response from tarantool")
)

const txnFunction = "config.storage.txn"

// New creates a new Tarantool driver instance over an established connection.
// Both tarantool.Connection and pool.ConnectorAdapter can be used.
func New(doer tarantool.Doer) *Driver {
	return &Driver{conn: doer}
}

// Execute executes a transactional operation with conditional logic.
// It processes predicates to determine whether to execute thenOps or elseOps.
func (d Driver) Execute(
	ctx context.Context,
	predicates []driver.Predicate,
	thenOps []driver.Operation,
	elseOps []driver.Operation,
) (driver.Response, error) {
	txnArg := newTxnRequest(predicates, thenOps, elseOps)

	req := tarantool.NewCallRequest(txnFunction).
		Args([]any{txnArg}).Context(ctx)

	var result []txnResponse

	switch err := d.conn.Do(req).GetTyped(&result); {
	case err != nil:
		return driver.Response{}, fmt.Errorf("failed to execute transaction: %w", err)
	case len(result) != 1:
		return driver.Response{}, fmt.Errorf("%w: expected 1 response, got %d", ErrUnexpectedResponse, len(result))
	}

	return result[0].asResponse(), nil
}
