// Package marshaller defines how values are turned into store nodes and
// back: the Marshaller strategy, the Registry that dispatches between
// strategies, the node attribute keys and the error taxonomy shared by
// all profiles.
package marshaller

import (
	"context"

	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// Marshaller is a type-specific encode and decode strategy.
type Marshaller interface {
	// Name identifies the marshaller in logs and errors.
	Name() string
	// Tags returns the type tags this marshaller writes and reads.
	// Profiles that do not record type tags return nil.
	Tags() []string
	// Match reports how specifically the marshaller handles v.
	// Zero means it cannot handle v at all.
	Match(v value.Value) int
	// Write stores v as the child name of parent.
	Write(ctx context.Context, w Writer, parent store.Node, name string, v value.Value) error
	// Read reconstructs a value from node.
	Read(ctx context.Context, r Reader, node store.Node, attrs Attrs) (value.Value, error)
}

// NodeMatcher is implemented by marshallers that can read nodes without
// a known type tag. MatchNode follows the same scale as Match.
type NodeMatcher interface {
	MatchNode(node store.Node, attrs Attrs) int
}

// Writer is the encoding session a marshaller writes through. It
// dispatches nested values back to the registry.
type Writer interface {
	// Engine returns the storage engine being written.
	Engine() store.Engine
	// Logger returns the session logger.
	Logger() *zap.Logger
	// WriteValue stores v as the child name of parent using the most
	// specific marshaller.
	WriteValue(ctx context.Context, parent store.Node, name string, v value.Value) error
	// WriteRef stores v in the reference group and returns its path.
	WriteRef(ctx context.Context, v value.Value) (string, error)
}

// Reader is the decoding session a marshaller reads through.
type Reader interface {
	// Engine returns the storage engine being read.
	Engine() store.Engine
	// Logger returns the session logger.
	Logger() *zap.Logger
	// ReadValue decodes node using the marshaller its attributes select.
	ReadValue(ctx context.Context, node store.Node) (value.Value, error)
	// ReadRef decodes the node a reference points to.
	ReadRef(ctx context.Context, path string) (value.Value, error)
}
