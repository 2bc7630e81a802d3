// Package memory provides an in-process implementation of the driver
// interface. It is used by tests and by callers that only need a
// store for the lifetime of the process.
package memory

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/tarantool/go-valuestore/driver"
)

// Driver is a thread-safe in-memory key-value backend.
type Driver struct {
	mu          sync.RWMutex
	storage     map[string]driver.KeyValue
	modRevision int64
}

var (
	_ driver.Driver = &Driver{} //nolint:exhaustruct
)

// New creates an empty Driver.
func New() *Driver {
	return &Driver{
		mu:          sync.RWMutex{},
		storage:     make(map[string]driver.KeyValue),
		modRevision: 1,
	}
}

// Execute implements driver.Driver. The whole transaction runs under a
// single lock, so it is atomic with respect to other calls.
func (d *Driver) Execute(
	_ context.Context,
	predicates []driver.Predicate,
	thenOps []driver.Operation,
	elseOps []driver.Operation,
) (driver.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ops := elseOps

	success := d.checkPredicates(predicates)
	if success {
		ops = thenOps
	}

	return driver.Response{
		Succeeded: success,
		Results:   d.executeOps(ops),
	}, nil
}

// Len returns the number of stored keys.
func (d *Driver) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.storage)
}

func (d *Driver) checkPredicates(predicates []driver.Predicate) bool {
	for _, pred := range predicates {
		var revision int64
		if val, ok := d.storage[string(pred.Key())]; ok {
			revision = val.ModRevision
		}

		switch pred.Compare() {
		case driver.CompareEqual:
			if revision != pred.Revision() {
				return false
			}
		case driver.CompareNotEqual:
			if revision == pred.Revision() {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func (d *Driver) getAllByPrefix(prefix string) []driver.KeyValue {
	var values []driver.KeyValue

	for k, v := range d.storage {
		if strings.HasPrefix(k, prefix) {
			values = append(values, v)
		}
	}

	slices.SortFunc(values, func(a, b driver.KeyValue) int {
		return bytes.Compare(a.Key, b.Key)
	})

	return values
}

func (d *Driver) executeOps(ops []driver.Operation) []driver.Result {
	results := make([]driver.Result, 0, len(ops))
	mutable := false

	for _, op := range ops {
		key := string(op.Key())

		switch op.Type() {
		case driver.OpPut:
			d.storage[key] = driver.KeyValue{
				Key:         slices.Clone(op.Key()),
				Value:       slices.Clone(op.Value()),
				ModRevision: d.modRevision,
			}
			mutable = true

			results = append(results, driver.Result{Values: nil})
		case driver.OpDelete:
			var values []driver.KeyValue

			if op.IsPrefix() {
				values = d.getAllByPrefix(key)
			} else if val, ok := d.storage[key]; ok {
				values = []driver.KeyValue{val}
			}

			for _, v := range values {
				delete(d.storage, string(v.Key))
			}

			mutable = mutable || len(values) > 0

			results = append(results, driver.Result{Values: values})
		case driver.OpGet:
			var values []driver.KeyValue

			if op.IsPrefix() {
				values = d.getAllByPrefix(key)
			} else if val, ok := d.storage[key]; ok {
				values = []driver.KeyValue{val}
			}

			results = append(results, driver.Result{Values: values})
		}
	}

	if mutable {
		d.modRevision++
	}

	return results
}
