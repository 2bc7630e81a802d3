package tkv

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-valuestore/driver"
)

var (
	// ErrUnknownOperator is returned when the operator is unknown.
	ErrUnknownOperator = errors.New("unknown operator")

	_ msgpack.CustomEncoder = tkvPredicate{} //nolint:exhaustruct
)

const revisionTarget = "mod_revision"

// FailedToEncodeTkvPredicateError is returned when we failed to encode tkvPredicate.
type FailedToEncodeTkvPredicateError struct {
	Text string
	Err  error
}

// Error returns the error message.
func (e FailedToEncodeTkvPredicateError) Error() string {
	return fmt.Sprintf("failed to encode tkvPredicate, %s: %s", e.Text, e.Err)
}

// Unwrap returns the underlying encoder error.
func (e FailedToEncodeTkvPredicateError) Unwrap() error {
	return e.Err
}

// getOperator returns the TKV operator string for a predicate comparison.
func getOperator(cmp driver.Compare) (string, bool) {
	switch cmp {
	case driver.CompareEqual:
		return "==", true
	case driver.CompareNotEqual:
		return "!=", true
	default:
		return "", false
	}
}

type tkvPredicate struct {
	driver.Predicate
}

func newTKVPredicates(predicates []driver.Predicate) []tkvPredicate {
	tkvPredicates := make([]tkvPredicate, 0, len(predicates))
	for _, p := range predicates {
		tkvPredicates = append(tkvPredicates, tkvPredicate{p})
	}

	return tkvPredicates
}

const (
	defaultPredicateArrayLen = 4
)

// EncodeMsgpack encodes the predicate as [target, operator, operand, path].
func (p tkvPredicate) EncodeMsgpack(encoder *msgpack.Encoder) error {
	op, ok := getOperator(p.Compare()) //nolint:varnamelen
	if !ok {
		return ErrUnknownOperator
	}

	err := encoder.EncodeArrayLen(defaultPredicateArrayLen)
	if err != nil {
		return FailedToEncodeTkvPredicateError{Text: "encode array length", Err: err}
	}

	err = encoder.EncodeString(revisionTarget)
	if err != nil {
		return FailedToEncodeTkvPredicateError{Text: "encode target", Err: err}
	}

	err = encoder.EncodeString(op)
	if err != nil {
		return FailedToEncodeTkvPredicateError{Text: "encode operator", Err: err}
	}

	err = encoder.EncodeInt(p.Revision())
	if err != nil {
		return FailedToEncodeTkvPredicateError{Text: "encode revision", Err: err}
	}

	err = encoder.EncodeString(string(p.Key()))
	if err != nil {
		return FailedToEncodeTkvPredicateError{Text: "encode key", Err: err}
	}

	return nil
}
