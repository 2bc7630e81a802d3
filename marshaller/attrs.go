package marshaller

import (
	"github.com/tarantool/go-valuestore/store"
)

// Node attribute keys. The keys are shared by all profiles; which of them
// a profile writes, and their values, differ.
const (
	// AttrTypeTag names the marshaller that produced a node.
	AttrTypeTag = "type-tag"
	// AttrIsEmpty marks values stored as an empty sentinel.
	AttrIsEmpty = "is-empty"
	// AttrContainerKind is one of the Container* values.
	AttrContainerKind = "container-kind"
	// AttrElementOrder lists mapping keys in insertion order.
	AttrElementOrder = "element-order"
	// AttrUnderlyingType records the dtype of an array that is stored in
	// another dtype.
	AttrUnderlyingType = "underlying-type"
	// AttrShape records the shape of an array that is stored in another shape.
	AttrShape = "shape"
	// AttrCharWidth is the number of bytes or codepoints per character cell.
	AttrCharWidth = "char-width"
	// AttrElementCount is the number of items of a container.
	AttrElementCount = "element-count"
	// AttrCompatClass is the class name the external numerical tool uses
	// for the node.
	AttrCompatClass = "compat-class"
	// AttrCompatEmpty marks empty values in the compatibility layout.
	AttrCompatEmpty = "compat-empty"
)

// Values of AttrContainerKind.
const (
	ContainerMapping  = "mapping"
	ContainerSequence = "sequence"
	ContainerSet      = "set"
	ContainerQueue    = "queue"
)

// Attrs is the attribute set of a node.
type Attrs map[string]store.Attr

// Str returns a string attribute.
func (a Attrs) Str(key string) (string, bool) {
	attr, ok := a[key]
	if !ok {
		return "", false
	}

	return attr.AsString()
}

// Strs returns a string list attribute.
func (a Attrs) Strs(key string) ([]string, bool) {
	attr, ok := a[key]
	if !ok {
		return nil, false
	}

	return attr.AsStrings()
}

// Int returns an integer attribute.
func (a Attrs) Int(key string) (int64, bool) {
	attr, ok := a[key]
	if !ok {
		return 0, false
	}

	return attr.AsInt()
}

// Ints returns an integer list attribute.
func (a Attrs) Ints(key string) ([]int64, bool) {
	attr, ok := a[key]
	if !ok {
		return nil, false
	}

	return attr.AsInts()
}

// Bool returns a boolean attribute. A missing attribute is false.
func (a Attrs) Bool(key string) bool {
	attr, ok := a[key]
	if !ok {
		return false
	}

	b, _ := attr.AsBool()

	return b
}
