package etcd

import (
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-valuestore/driver"
)

// predicatesToCmps converts a predicate list to an etcd comparison list.
func predicatesToCmps(predicates []driver.Predicate) ([]etcd.Cmp, error) {
	cmps := make([]etcd.Cmp, 0, len(predicates))

	for _, pred := range predicates {
		cmp, err := predicateToCmp(pred)
		if err != nil {
			return nil, err
		}

		cmps = append(cmps, cmp)
	}

	return cmps, nil
}

// predicateToCmp converts a revision predicate to an etcd comparison.
// etcd reports a mod revision of 0 for missing keys, which matches the
// driver.Missing convention.
func predicateToCmp(pred driver.Predicate) (etcd.Cmp, error) {
	key := string(pred.Key())

	switch pred.Compare() {
	case driver.CompareEqual:
		return etcd.Compare(etcd.ModRevision(key), "=", pred.Revision()), nil
	case driver.CompareNotEqual:
		return etcd.Compare(etcd.ModRevision(key), "!=", pred.Revision()), nil
	default:
		return etcd.Cmp{}, fmt.Errorf("%w: %v", errUnsupportedCompare, pred.Compare())
	}
}
