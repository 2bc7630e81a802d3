package etcd

import (
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-valuestore/driver"
)

// operationsToEtcdOps converts operations to etcd operations.
func operationsToEtcdOps(ops []driver.Operation) ([]etcd.Op, error) {
	etcdOps := make([]etcd.Op, 0, len(ops))

	for _, op := range ops {
		etcdOp, err := operationToEtcdOp(op)
		if err != nil {
			return nil, err
		}

		etcdOps = append(etcdOps, etcdOp)
	}

	return etcdOps, nil
}

// operationToEtcdOp converts an operation to an etcd operation.
// Prefix reads are sorted by key so that children come back in name order.
func operationToEtcdOp(op driver.Operation) (etcd.Op, error) {
	key := string(op.Key())

	var opts []etcd.OpOption
	if op.IsPrefix() {
		opts = append(opts, etcd.WithPrefix())
	}

	switch op.Type() {
	case driver.OpGet:
		if op.IsPrefix() {
			opts = append(opts, etcd.WithSort(etcd.SortByKey, etcd.SortAscend))
		}

		return etcd.OpGet(key, opts...), nil
	case driver.OpPut:
		return etcd.OpPut(key, string(op.Value())), nil
	case driver.OpDelete:
		opts = append(opts, etcd.WithPrevKV())
		return etcd.OpDelete(key, opts...), nil
	default:
		return etcd.Op{}, fmt.Errorf("%w: %v", errUnsupportedOperationType, op.Type())
	}
}
