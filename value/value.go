// Package value defines the closed set of in-memory values that can be
// written to and read from a store: scalars, text, byte strings,
// n-dimensional arrays, mappings, sequences, sets, deques and the Absent
// sentinel.
package value

import (
	"fmt"
)

// Value is any storable value. The set of implementations is closed:
// Absent, Bool, Int, Float, Complex, Text, Bytes, ByteArray, *Array,
// *Mapping and *Sequence.
type Value interface {
	isValue()
}

// Absent is the "nothing" value.
type Absent struct{}

// Bool is a plain boolean scalar.
type Bool bool

// Int is a plain integer scalar.
type Int int64

// Float is a plain floating point scalar.
type Float float64

// Complex is a plain complex scalar.
type Complex complex128

// Text is a variable-width unicode string.
type Text string

// Bytes is an immutable byte string.
type Bytes []byte

// ByteArray is a mutable byte string. It is stored like Bytes but keeps
// its own type through a native round trip.
type ByteArray []byte

func (Absent) isValue()    {}
func (Bool) isValue()      {}
func (Int) isValue()       {}
func (Float) isValue()     {}
func (Complex) isValue()   {}
func (Text) isValue()      {}
func (Bytes) isValue()     {}
func (ByteArray) isValue() {}
func (*Array) isValue()    {}
func (*Mapping) isValue()  {}
func (*Sequence) isValue() {}

// TypeName returns a short human readable name of v's variant,
// used in error messages.
func TypeName(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case Absent:
		return "absent"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Complex:
		return "complex"
	case Text:
		return "text"
	case Bytes:
		return "bytes"
	case ByteArray:
		return "bytearray"
	case *Array:
		if val == nil {
			return "nil array"
		}

		return "array[" + val.DType.String() + "]"
	case *Mapping:
		return "mapping"
	case *Sequence:
		if val == nil {
			return "nil sequence"
		}

		return val.Kind.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
