package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a node does not exist.
	ErrNotFound = errors.New("node not found")
	// ErrExists is returned when creating a node whose name is taken.
	ErrExists = errors.New("node already exists")
	// ErrNotGroup is returned when a group operation targets a dataset.
	ErrNotGroup = errors.New("node is not a group")
	// ErrNotDataset is returned when a dataset operation targets a group.
	ErrNotDataset = errors.New("node is not a dataset")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store is closed")
	// ErrInvalidDataset is returned by CreateDataset for inconsistent input.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrConflict is returned when an attribute update keeps losing to
	// concurrent writers.
	ErrConflict = errors.New("concurrent modification")

	// ErrCorrupt is returned when a stored record cannot be decoded or
	// violates the dtype and shape invariants.
	ErrCorrupt = errors.New("corrupt node record")
	// ErrChecksum is returned when a payload does not match its checksum.
	ErrChecksum = errors.New("payload checksum mismatch")
	// ErrSignature is returned when a payload signature is missing or invalid.
	ErrSignature = errors.New("payload signature verification failed")
)

// NodeError records the operation and the node path an error happened at.
type NodeError struct {
	Op   string
	Path string
	Err  error
}

func errNode(op string, path string, err error) error {
	if err == nil {
		return nil
	}

	return NodeError{Op: op, Path: path, Err: err}
}

// Error returns a string representation of the node error.
func (e NodeError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e NodeError) Unwrap() error {
	return e.Err
}

// IsIntegrityError reports whether err means stored data is damaged
// rather than unavailable.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrCorrupt) || errors.Is(err, ErrChecksum) || errors.Is(err, ErrSignature)
}
