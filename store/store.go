// Package store implements a hierarchical store of groups and typed
// datasets on top of a transactional key-value driver.
//
// Every node is a single msgpack record under a key built by the namer
// package. Groups hold attributes only; their children are found by a
// prefix read. Datasets additionally hold an element type, a shape and a
// little-endian payload protected by a checksum and, optionally, a
// signature.
package store

import (
	"context"

	"github.com/tarantool/go-option"

	"github.com/tarantool/go-valuestore/namer"
)

// Kind distinguishes groups from datasets.
type Kind int

const (
	// KindGroup is a named collection of child nodes.
	KindGroup Kind = iota + 1
	// KindDataset is a typed n-dimensional array.
	KindDataset
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindDataset:
		return "Dataset"
	default:
		return "Unknown"
	}
}

// Node addresses a stored group or dataset.
type Node struct {
	Path string
	Kind Kind
}

// Name returns the last component of the node path.
// The root group has an empty name.
func (n Node) Name() string {
	_, name := namer.Split(n.Path)
	return name
}

// IsGroup reports whether n is a group.
func (n Node) IsGroup() bool {
	return n.Kind == KindGroup
}

// Engine is the storage engine used by marshallers. All encoding is
// expressed in terms of these calls and all decoding consumes only their
// results.
type Engine interface {
	// Root returns the root group.
	Root() Node
	// Lookup finds the node at path.
	Lookup(ctx context.Context, path string) (Node, bool, error)
	// CreateGroup creates an empty group with attrs under parent.
	CreateGroup(ctx context.Context, parent Node, name string, attrs map[string]Attr) (Node, error)
	// CreateDataset creates a dataset with ds.Attrs under parent.
	CreateDataset(ctx context.Context, parent Node, name string, ds Dataset) (Node, error)
	// ReadDataset returns the element type, shape and data of a dataset.
	ReadDataset(ctx context.Context, node Node) (Dataset, error)
	// ListChildren returns the direct children of a group ordered by name.
	ListChildren(ctx context.Context, group Node) ([]Node, error)
	// GetAttribute returns the attribute key of node, if it is set.
	GetAttribute(ctx context.Context, node Node, key string) (option.Generic[Attr], error)
	// SetAttribute sets the attribute key of node.
	SetAttribute(ctx context.Context, node Node, key string, val Attr) error
	// SetAttributes sets several attributes of node at once.
	SetAttributes(ctx context.Context, node Node, attrs map[string]Attr) error
	// Attributes returns all attributes of node.
	Attributes(ctx context.Context, node Node) (map[string]Attr, error)
	// Delete removes node with all its descendants. Deleting the root
	// group only removes its descendants and attributes.
	Delete(ctx context.Context, node Node) error
	// Close releases the engine. Further calls fail with ErrClosed.
	Close() error
}
