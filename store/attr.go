package store

import (
	"fmt"
)

// AttrKind is the type of an attribute value.
type AttrKind int

const (
	// AttrString is a single string.
	AttrString AttrKind = iota + 1
	// AttrStrings is a list of strings.
	AttrStrings
	// AttrInt is a single integer.
	AttrInt
	// AttrInts is a list of integers.
	AttrInts
	// AttrBool is a boolean.
	AttrBool
)

func (k AttrKind) String() string {
	switch k {
	case AttrString:
		return "String"
	case AttrStrings:
		return "Strings"
	case AttrInt:
		return "Int"
	case AttrInts:
		return "Ints"
	case AttrBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Attr is a typed node attribute. Only the field matching Kind is used.
type Attr struct {
	Kind AttrKind `msgpack:"k"`
	Str  string   `msgpack:"s,omitempty"`
	Strs []string `msgpack:"ss,omitempty"`
	Int  int64    `msgpack:"i,omitempty"`
	Ints []int64  `msgpack:"is,omitempty"`
	Bool bool     `msgpack:"b,omitempty"`
}

// StrAttr returns a string attribute.
func StrAttr(s string) Attr {
	return Attr{Kind: AttrString, Str: s} //nolint:exhaustruct
}

// StrsAttr returns a string list attribute.
func StrsAttr(ss []string) Attr {
	return Attr{Kind: AttrStrings, Strs: ss} //nolint:exhaustruct
}

// IntAttr returns an integer attribute.
func IntAttr(i int64) Attr {
	return Attr{Kind: AttrInt, Int: i} //nolint:exhaustruct
}

// IntsAttr returns an integer list attribute.
func IntsAttr(is []int64) Attr {
	return Attr{Kind: AttrInts, Ints: is} //nolint:exhaustruct
}

// BoolAttr returns a boolean attribute.
func BoolAttr(b bool) Attr {
	return Attr{Kind: AttrBool, Bool: b} //nolint:exhaustruct
}

// AsString returns the value of a string attribute.
func (a Attr) AsString() (string, bool) {
	return a.Str, a.Kind == AttrString
}

// AsStrings returns the value of a string list attribute.
func (a Attr) AsStrings() ([]string, bool) {
	return a.Strs, a.Kind == AttrStrings
}

// AsInt returns the value of an integer attribute.
func (a Attr) AsInt() (int64, bool) {
	return a.Int, a.Kind == AttrInt
}

// AsInts returns the value of an integer list attribute.
func (a Attr) AsInts() ([]int64, bool) {
	return a.Ints, a.Kind == AttrInts
}

// AsBool returns the value of a boolean attribute.
func (a Attr) AsBool() (bool, bool) {
	return a.Bool, a.Kind == AttrBool
}

func (a Attr) String() string {
	switch a.Kind {
	case AttrString:
		return a.Str
	case AttrStrings:
		return fmt.Sprint(a.Strs)
	case AttrInt:
		return fmt.Sprint(a.Int)
	case AttrInts:
		return fmt.Sprint(a.Ints)
	case AttrBool:
		return fmt.Sprint(a.Bool)
	default:
		return "<invalid>"
	}
}
