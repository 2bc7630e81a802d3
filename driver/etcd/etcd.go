// Package etcd provides an etcd implementation of the driver interface,
// so node stores can live in an etcd cluster.
package etcd

import (
	"context"
	"errors"
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-valuestore/driver"
)

// Client defines the minimal part of the etcd client used by the driver.
// It allows substituting the client in tests.
type Client interface {
	// Txn creates a new transaction.
	Txn(ctx context.Context) etcd.Txn
}

// Driver is an etcd implementation of driver.Driver.
type Driver struct {
	client Client
}

var (
	_ driver.Driver = &Driver{} //nolint:exhaustruct

	errUnsupportedCompare       = errors.New("unsupported predicate comparison")
	errUnsupportedOperationType = errors.New("unsupported operation type")
)

// New creates a driver on top of a connected etcd client.
func New(client *etcd.Client) *Driver {
	return NewWithClient(client)
}

// NewWithClient creates a driver on top of any Client implementation.
func NewWithClient(client Client) *Driver {
	return &Driver{client: client}
}

// Execute implements driver.Driver.
func (d Driver) Execute(
	ctx context.Context,
	predicates []driver.Predicate,
	thenOps []driver.Operation,
	elseOps []driver.Operation,
) (driver.Response, error) {
	txn := d.client.Txn(ctx)

	cmps, err := predicatesToCmps(predicates)
	if err != nil {
		return driver.Response{}, fmt.Errorf("failed to convert predicates: %w", err)
	}

	thenEtcdOps, err := operationsToEtcdOps(thenOps)
	if err != nil {
		return driver.Response{}, fmt.Errorf("failed to convert then operations: %w", err)
	}

	elseEtcdOps, err := operationsToEtcdOps(elseOps)
	if err != nil {
		return driver.Response{}, fmt.Errorf("failed to convert else operations: %w", err)
	}

	resp, err := txn.If(cmps...).Then(thenEtcdOps...).Else(elseEtcdOps...).Commit()
	if err != nil {
		return driver.Response{}, fmt.Errorf("transaction failed: %w", err)
	}

	return responseFromEtcd(resp), nil
}

// responseFromEtcd converts an etcd transaction response to driver.Response.
func responseFromEtcd(resp *etcd.TxnResponse) driver.Response {
	results := make([]driver.Result, 0, len(resp.Responses))

	for _, etcdResp := range resp.Responses {
		var values []driver.KeyValue

		switch {
		case etcdResp.GetResponseRange() != nil:
			for _, etcdKv := range etcdResp.GetResponseRange().Kvs {
				values = append(values, driver.KeyValue{
					Key:         etcdKv.Key,
					Value:       etcdKv.Value,
					ModRevision: etcdKv.ModRevision,
				})
			}
		case etcdResp.GetResponseDeleteRange() != nil:
			for _, etcdKv := range etcdResp.GetResponseDeleteRange().PrevKvs {
				values = append(values, driver.KeyValue{
					Key:         etcdKv.Key,
					Value:       etcdKv.Value,
					ModRevision: etcdKv.ModRevision,
				})
			}
		}

		results = append(results, driver.Result{Values: values})
	}

	return driver.Response{
		Succeeded: resp.Succeeded,
		Results:   results,
	}
}
