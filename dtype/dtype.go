// Package dtype describes array element types: fixed-size numerics,
// fixed-width byte and codepoint strings, and object references.
package dtype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the class of an element type.
type Kind int

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindBool is a boolean stored in one byte.
	KindBool
	// KindInt8 is a signed 8-bit integer.
	KindInt8
	// KindInt16 is a signed 16-bit integer.
	KindInt16
	// KindInt32 is a signed 32-bit integer.
	KindInt32
	// KindInt64 is a signed 64-bit integer.
	KindInt64
	// KindUint8 is an unsigned 8-bit integer.
	KindUint8
	// KindUint16 is an unsigned 16-bit integer.
	KindUint16
	// KindUint32 is an unsigned 32-bit integer.
	KindUint32
	// KindUint64 is an unsigned 64-bit integer.
	KindUint64
	// KindFloat32 is an IEEE 754 single precision float.
	KindFloat32
	// KindFloat64 is an IEEE 754 double precision float.
	KindFloat64
	// KindComplex64 is a pair of float32 (real, imaginary).
	KindComplex64
	// KindComplex128 is a pair of float64 (real, imaginary).
	KindComplex128
	// KindBytes is a fixed-width string of 8-bit characters.
	KindBytes
	// KindStr is a fixed-width string of 32-bit codepoints.
	KindStr
	// KindObject is a reference to another value.
	KindObject
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	KindBool:       "bool",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindComplex64:  "complex64",
	KindComplex128: "complex128",
	KindBytes:      "S",
	KindStr:        "U",
	KindObject:     "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind[%d]", int(k))
}

// DType is an element type descriptor. Width is only meaningful for
// KindBytes (bytes per element) and KindStr (codepoints per element).
type DType struct {
	Kind  Kind
	Width int
}

//nolint:gochecknoglobals
var (
	Bool       = DType{Kind: KindBool}
	Int8       = DType{Kind: KindInt8}
	Int16      = DType{Kind: KindInt16}
	Int32      = DType{Kind: KindInt32}
	Int64      = DType{Kind: KindInt64}
	Uint8      = DType{Kind: KindUint8}
	Uint16     = DType{Kind: KindUint16}
	Uint32     = DType{Kind: KindUint32}
	Uint64     = DType{Kind: KindUint64}
	Float32    = DType{Kind: KindFloat32}
	Float64    = DType{Kind: KindFloat64}
	Complex64  = DType{Kind: KindComplex64}
	Complex128 = DType{Kind: KindComplex128}
	Object     = DType{Kind: KindObject}
)

// Bytes returns the fixed-width byte string type of the given width.
func Bytes(width int) DType {
	return DType{Kind: KindBytes, Width: width}
}

// Str returns the fixed-width codepoint string type of the given width.
func Str(width int) DType {
	return DType{Kind: KindStr, Width: width}
}

// ErrInvalidDType is returned when a dtype string cannot be parsed.
var ErrInvalidDType = errors.New("invalid dtype")

// ItemSize returns the size of one element in bytes.
// Object elements have no fixed size and report 0.
func (d DType) ItemSize() int {
	switch d.Kind {
	case KindBool, KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2 //nolint:mnd
	case KindInt32, KindUint32, KindFloat32:
		return 4 //nolint:mnd
	case KindInt64, KindUint64, KindFloat64, KindComplex64:
		return 8 //nolint:mnd
	case KindComplex128:
		return 16 //nolint:mnd
	case KindBytes:
		return d.Width
	case KindStr:
		return 4 * d.Width //nolint:mnd
	default:
		return 0
	}
}

// IsComplex reports whether d is one of the complex kinds.
func (d DType) IsComplex() bool {
	return d.Kind == KindComplex64 || d.Kind == KindComplex128
}

// IsString reports whether d is a fixed-width string kind.
func (d DType) IsString() bool {
	return d.Kind == KindBytes || d.Kind == KindStr
}

// IsNumeric reports whether d is a bool, integer, float or complex kind.
func (d DType) IsNumeric() bool {
	return d.Kind >= KindBool && d.Kind <= KindComplex128
}

// Real returns the component type of a complex type, or d itself.
func (d DType) Real() DType {
	switch d.Kind { //nolint:exhaustive
	case KindComplex64:
		return Float32
	case KindComplex128:
		return Float64
	default:
		return d
	}
}

// String renders d the way it is recorded in node attributes,
// e.g. "float64", "S3", "U12", "object".
func (d DType) String() string {
	if d.IsString() {
		return d.Kind.String() + strconv.Itoa(d.Width)
	}

	return d.Kind.String()
}

// Parse is the inverse of DType.String.
func Parse(s string) (DType, error) {
	for kind, name := range kindNames {
		if kind == KindBytes || kind == KindStr {
			continue
		}

		if name == s {
			return DType{Kind: kind}, nil
		}
	}

	var kind Kind

	switch {
	case strings.HasPrefix(s, "S"):
		kind = KindBytes
	case strings.HasPrefix(s, "U"):
		kind = KindStr
	default:
		return DType{}, fmt.Errorf("%w: %q", ErrInvalidDType, s)
	}

	width, err := strconv.Atoi(s[1:])
	if err != nil || width < 0 {
		return DType{}, fmt.Errorf("%w: %q", ErrInvalidDType, s)
	}

	return DType{Kind: kind, Width: width}, nil
}
