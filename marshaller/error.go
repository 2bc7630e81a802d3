package marshaller

import (
	"errors"
	"fmt"

	"github.com/tarantool/go-valuestore/store"
)

var (
	// ErrNoMarshaller is the cause of an UnsupportedTypeError when no
	// registered marshaller matches and no fallback is configured.
	ErrNoMarshaller = errors.New("no marshaller matches")
	// ErrMaxDepth is the cause of an UnsupportedTypeError when a value is
	// nested deeper than allowed. Cyclic containers end up here.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// UnsupportedTypeError is returned when a value or a stored node has no
// matching marshaller.
type UnsupportedTypeError struct {
	Path   string
	Type   string
	parent error
}

// NewUnsupportedTypeError returns an UnsupportedTypeError for a value of
// type typeName at path.
func NewUnsupportedTypeError(path string, typeName string, parent error) error {
	return UnsupportedTypeError{Path: path, Type: typeName, parent: parent}
}

// Unwrap returns the underlying cause.
func (e UnsupportedTypeError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the error.
func (e UnsupportedTypeError) Error() string {
	if e.parent == nil {
		return fmt.Sprintf("unsupported type %s at %s", e.Type, e.Path)
	}

	return fmt.Sprintf("unsupported type %s at %s: %s", e.Type, e.Path, e.parent)
}

// EncodingError is returned when text or byte conversion fails.
type EncodingError struct {
	Path   string
	parent error
}

// NewEncodingError wraps a conversion failure at path. It returns nil
// for a nil parent.
func NewEncodingError(path string, parent error) error {
	if parent == nil {
		return nil
	}

	return EncodingError{Path: path, parent: parent}
}

// Unwrap returns the underlying conversion error.
func (e EncodingError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the error.
func (e EncodingError) Error() string {
	return fmt.Sprintf("encoding error at %s: %s", e.Path, e.parent)
}

// CorruptDataError is returned when a stored node violates the invariants
// of the marshaller reading it.
type CorruptDataError struct {
	Path   string
	parent error
}

// NewCorruptDataError wraps a decoding failure at path. It returns nil
// for a nil parent.
func NewCorruptDataError(path string, parent error) error {
	if parent == nil {
		return nil
	}

	return CorruptDataError{Path: path, parent: parent}
}

// Corruptf returns a CorruptDataError with a formatted cause.
func Corruptf(path string, format string, args ...any) error {
	return CorruptDataError{Path: path, parent: fmt.Errorf(format, args...)}
}

// Unwrap returns the underlying cause.
func (e CorruptDataError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the error.
func (e CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at %s: %s", e.Path, e.parent)
}

// StorageIOError carries a failure of the storage engine unchanged.
type StorageIOError struct {
	Path   string
	parent error
}

// NewStorageIOError wraps an engine failure at path. It returns nil for a
// nil parent.
func NewStorageIOError(path string, parent error) error {
	if parent == nil {
		return nil
	}

	return StorageIOError{Path: path, parent: parent}
}

// Unwrap returns the engine error.
func (e StorageIOError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the error.
func (e StorageIOError) Error() string {
	return fmt.Sprintf("storage error at %s: %s", e.Path, e.parent)
}

// FromStorage classifies an engine error: damaged records become
// CorruptDataError, everything else StorageIOError. Errors that already
// belong to the taxonomy are returned as is.
func FromStorage(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case isTaxonomy(err):
		return err
	case store.IsIntegrityError(err):
		return CorruptDataError{Path: path, parent: err}
	default:
		return StorageIOError{Path: path, parent: err}
	}
}

func isTaxonomy(err error) bool {
	var (
		unsupported UnsupportedTypeError
		encoding    EncodingError
		corrupt     CorruptDataError
		storageIO   StorageIOError
	)

	return errors.As(err, &unsupported) || errors.As(err, &encoding) ||
		errors.As(err, &corrupt) || errors.As(err, &storageIO)
}

// MarshalError represents an error when writing a value fails.
type MarshalError struct {
	Path   string
	parent error
}

// NewMarshalError wraps a write failure of the value at path. It returns
// nil for a nil parent.
func NewMarshalError(path string, parent error) error {
	if parent == nil {
		return nil
	}

	return MarshalError{Path: path, parent: parent}
}

// Unwrap returns the underlying error that caused the marshalling failure.
func (e MarshalError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the marshalling error.
func (e MarshalError) Error() string {
	return fmt.Sprintf("Failed to marshal %s: %s", e.Path, e.parent)
}

// UnmarshalError represents an error when reading a value fails.
type UnmarshalError struct {
	Path   string
	parent error
}

// NewUnmarshalError wraps a read failure of the value at path. It returns
// nil for a nil parent.
func NewUnmarshalError(path string, parent error) error {
	if parent == nil {
		return nil
	}

	return UnmarshalError{Path: path, parent: parent}
}

// Unwrap returns the underlying error that caused the unmarshalling failure.
func (e UnmarshalError) Unwrap() error {
	return e.parent
}

// Error returns a string representation of the unmarshalling error.
func (e UnmarshalError) Error() string {
	return fmt.Sprintf("Failed to unmarshal %s: %s", e.Path, e.parent)
}
