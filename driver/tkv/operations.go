package tkv

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-valuestore/driver"
)

var (
	// ErrUnknownOperation is returned when the operation is unknown.
	ErrUnknownOperation = errors.New("unknown operation")
)

// FailedToEncodeTkvOperationError is returned when we failed to encode tkvOperation.
type FailedToEncodeTkvOperationError struct {
	Text string
	Err  error
}

// Error returns the error message.
func (e FailedToEncodeTkvOperationError) Error() string {
	return fmt.Sprintf("failed to encode tkvOperation, %s: %s", e.Text, e.Err)
}

// Unwrap returns the underlying encoder error.
func (e FailedToEncodeTkvOperationError) Unwrap() error {
	return e.Err
}

const (
	// putOperationArrayLen is the length of the array that is used to encode a put operation.
	putOperationArrayLen = 3
	// otherOperationArrayLen is the length of the array that is used to encode get and delete.
	otherOperationArrayLen = 2
)

// getOperation returns the TKV operation string for an operation type.
func getOperation(opType driver.OpType) (string, bool) {
	switch opType {
	case driver.OpGet:
		return "get", true
	case driver.OpPut:
		return "put", true
	case driver.OpDelete:
		return "delete", true
	default:
		return "", false
	}
}

// tkvOperation encodes an operation as [op, path] or [op, path, value].
// Config storage treats paths ending with '/' as prefixes, which matches
// how prefix operations are built.
type tkvOperation struct {
	driver.Operation
}

// newTKVOperations returns a slice of TKV operations from a slice of operations.
func newTKVOperations(operations []driver.Operation) []tkvOperation {
	tkvOperations := make([]tkvOperation, 0, len(operations))
	for _, o := range operations {
		tkvOperations = append(tkvOperations, tkvOperation{o})
	}

	return tkvOperations
}

func (o tkvOperation) EncodeMsgpack(encoder *msgpack.Encoder) error {
	op, ok := getOperation(o.Type()) //nolint:varnamelen
	if !ok {
		return ErrUnknownOperation
	}

	arrayLen := otherOperationArrayLen
	if o.Type() == driver.OpPut {
		arrayLen = putOperationArrayLen
	}

	err := encoder.EncodeArrayLen(arrayLen)
	if err != nil {
		return FailedToEncodeTkvOperationError{Text: "encode operation array length", Err: err}
	}

	err = encoder.EncodeString(op)
	if err != nil {
		return FailedToEncodeTkvOperationError{Text: "encode operation", Err: err}
	}

	err = encoder.EncodeString(string(o.Key()))
	if err != nil {
		return FailedToEncodeTkvOperationError{Text: "encode operation key", Err: err}
	}

	if o.Type() == driver.OpPut {
		err = encoder.EncodeString(string(o.Value()))
		if err != nil {
			return FailedToEncodeTkvOperationError{Text: "encode put operation value", Err: err}
		}
	}

	return nil
}
