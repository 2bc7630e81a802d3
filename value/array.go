package value

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tarantool/go-valuestore/dtype"
)

var (
	// ErrShapeMismatch is returned when data length does not agree with
	// the shape and element type of an array.
	ErrShapeMismatch = errors.New("data length does not match shape")
	// ErrDataType is returned when the Go type of array data does not
	// correspond to its element type.
	ErrDataType = errors.New("data type does not match dtype")
)

// Array is an n-dimensional array in row-major order.
//
// Data holds a Go slice whose type depends on DType.Kind: []bool, []int8,
// ..., []complex128 for numeric kinds, the raw padded []byte buffer for
// KindBytes, the raw padded []rune buffer for KindStr and []Value for
// KindObject. Fixed-width strings occupy DType.Width units each.
// An empty Shape is a 0-d array holding exactly one element.
type Array struct {
	DType dtype.DType
	Shape []int
	Data  any
}

// Number is the set of Go element types with a numeric dtype.
type Number interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | complex64 | complex128
}

// ShapeSize returns the number of elements of an array with this shape.
func ShapeSize(shape []int) int {
	size := 1
	for _, d := range shape {
		size *= d
	}

	return size
}

// New validates data against dt and shape and returns the array.
func New(dt dtype.DType, shape []int, data any) (*Array, error) {
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, shape)
		}
	}

	want := ShapeSize(shape)
	if dt.IsString() {
		want *= dt.Width
	}

	got, ok := dataLen(dt, data)
	if !ok {
		return nil, fmt.Errorf("%w: %s array cannot hold %T", ErrDataType, dt, data)
	}

	if got != want {
		return nil, fmt.Errorf("%w: %s%v needs %d units, got %d", ErrShapeMismatch, dt, shape, want, got)
	}

	return &Array{DType: dt, Shape: slices.Clone(shape), Data: data}, nil
}

// Must is like New but panics on error. Intended for literals and tests.
func Must(dt dtype.DType, shape []int, data any) *Array {
	arr, err := New(dt, shape, data)
	if err != nil {
		panic(err)
	}

	return arr
}

func dataLen(dt dtype.DType, data any) (int, bool) { //nolint:cyclop
	switch dt.Kind {
	case dtype.KindBool:
		return sliceLen[bool](data)
	case dtype.KindInt8:
		return sliceLen[int8](data)
	case dtype.KindInt16:
		return sliceLen[int16](data)
	case dtype.KindInt32:
		return sliceLen[int32](data)
	case dtype.KindInt64:
		return sliceLen[int64](data)
	case dtype.KindUint8, dtype.KindBytes:
		return sliceLen[uint8](data)
	case dtype.KindUint16:
		return sliceLen[uint16](data)
	case dtype.KindUint32:
		return sliceLen[uint32](data)
	case dtype.KindUint64:
		return sliceLen[uint64](data)
	case dtype.KindFloat32:
		return sliceLen[float32](data)
	case dtype.KindFloat64:
		return sliceLen[float64](data)
	case dtype.KindComplex64:
		return sliceLen[complex64](data)
	case dtype.KindComplex128:
		return sliceLen[complex128](data)
	case dtype.KindStr:
		return sliceLen[rune](data)
	case dtype.KindObject:
		return sliceLen[Value](data)
	default:
		return 0, false
	}
}

func sliceLen[T any](data any) (int, bool) {
	s, ok := data.([]T)
	return len(s), ok
}

// MakeData allocates zeroed storage for n elements of dt.
func MakeData(dt dtype.DType, n int) any { //nolint:cyclop
	switch dt.Kind {
	case dtype.KindBool:
		return make([]bool, n)
	case dtype.KindInt8:
		return make([]int8, n)
	case dtype.KindInt16:
		return make([]int16, n)
	case dtype.KindInt32:
		return make([]int32, n)
	case dtype.KindInt64:
		return make([]int64, n)
	case dtype.KindUint8:
		return make([]uint8, n)
	case dtype.KindUint16:
		return make([]uint16, n)
	case dtype.KindUint32:
		return make([]uint32, n)
	case dtype.KindUint64:
		return make([]uint64, n)
	case dtype.KindFloat32:
		return make([]float32, n)
	case dtype.KindFloat64:
		return make([]float64, n)
	case dtype.KindComplex64:
		return make([]complex64, n)
	case dtype.KindComplex128:
		return make([]complex128, n)
	case dtype.KindBytes:
		return make([]byte, n*dt.Width)
	case dtype.KindStr:
		return make([]rune, n*dt.Width)
	case dtype.KindObject:
		return make([]Value, n)
	default:
		return nil
	}
}

// Zeros returns a zero-filled array.
func Zeros(dt dtype.DType, shape ...int) *Array {
	return Must(dt, shape, MakeData(dt, ShapeSize(shape)))
}

// DTypeOf returns the dtype of Go element type T.
func DTypeOf[T Number]() dtype.DType { //nolint:cyclop
	var zero T

	switch any(zero).(type) {
	case bool:
		return dtype.Bool
	case int8:
		return dtype.Int8
	case int16:
		return dtype.Int16
	case int32:
		return dtype.Int32
	case int64:
		return dtype.Int64
	case uint8:
		return dtype.Uint8
	case uint16:
		return dtype.Uint16
	case uint32:
		return dtype.Uint32
	case uint64:
		return dtype.Uint64
	case float32:
		return dtype.Float32
	case float64:
		return dtype.Float64
	case complex64:
		return dtype.Complex64
	default:
		return dtype.Complex128
	}
}

// Numeric builds a numeric array. Without shape it is one-dimensional.
func Numeric[T Number](data []T, shape ...int) *Array {
	if shape == nil {
		shape = []int{len(data)}
	}

	return Must(DTypeOf[T](), shape, data)
}

// Scalar builds a 0-d numeric array holding x.
func Scalar[T Number](x T) *Array {
	return Must(DTypeOf[T](), []int{}, []T{x})
}

// Strs builds a fixed-width codepoint string array. The width is the
// longest string, and at least 1.
func Strs(strs []string, shape ...int) *Array {
	width := 1
	for _, s := range strs {
		width = max(width, len([]rune(s)))
	}

	data := make([]rune, len(strs)*width)
	for i, s := range strs {
		copy(data[i*width:], []rune(s))
	}

	if shape == nil {
		shape = []int{len(strs)}
	}

	return Must(dtype.Str(width), shape, data)
}

// StrScalar builds a 0-d codepoint string array whose width is the
// length of s.
func StrScalar(s string) *Array {
	runes := []rune(s)
	return Must(dtype.Str(len(runes)), []int{}, runes)
}

// ByteStrs builds a fixed-width byte string array. The width is the
// longest string, and at least 1.
func ByteStrs(strs [][]byte, shape ...int) *Array {
	width := 1
	for _, s := range strs {
		width = max(width, len(s))
	}

	data := make([]byte, len(strs)*width)
	for i, s := range strs {
		copy(data[i*width:], s)
	}

	if shape == nil {
		shape = []int{len(strs)}
	}

	return Must(dtype.Bytes(width), shape, data)
}

// BytesScalar builds a 0-d byte string array whose width is len(b).
func BytesScalar(b []byte) *Array {
	return Must(dtype.Bytes(len(b)), []int{}, slices.Clone(b))
}

// Objects builds an object array. Without shape it is one-dimensional.
func Objects(items []Value, shape ...int) *Array {
	if shape == nil {
		shape = []int{len(items)}
	}

	return Must(dtype.Object, shape, items)
}

// Size returns the number of elements.
func (a *Array) Size() int {
	return ShapeSize(a.Shape)
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.Shape)
}

// Reshape returns an array sharing a's data with a new shape of the same size.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	if ShapeSize(shape) != a.Size() {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, a.Shape, shape)
	}

	return &Array{DType: a.DType, Shape: slices.Clone(shape), Data: a.Data}, nil
}

// AtLeast1D views a 0-d array as shape (1,); other arrays are returned as is.
func (a *Array) AtLeast1D() *Array {
	if a.NDim() > 0 {
		return a
	}

	return &Array{DType: a.DType, Shape: []int{1}, Data: a.Data}
}

// AtLeast2D views a 0-d array as (1, 1) and a 1-d array (n,) as (1, n).
func (a *Array) AtLeast2D() *Array {
	switch a.NDim() {
	case 0:
		return &Array{DType: a.DType, Shape: []int{1, 1}, Data: a.Data}
	case 1:
		return &Array{DType: a.DType, Shape: []int{1, a.Shape[0]}, Data: a.Data}
	default:
		return a
	}
}

// RealPart returns the real component of a complex array, or a itself.
func (a *Array) RealPart() *Array {
	switch data := a.Data.(type) {
	case []complex64:
		out := make([]float32, len(data))
		for i, c := range data {
			out[i] = real(c)
		}

		return &Array{DType: dtype.Float32, Shape: slices.Clone(a.Shape), Data: out}
	case []complex128:
		out := make([]float64, len(data))
		for i, c := range data {
			out[i] = real(c)
		}

		return &Array{DType: dtype.Float64, Shape: slices.Clone(a.Shape), Data: out}
	default:
		return a
	}
}

// Items returns the elements of an object array, or nil for other kinds.
func (a *Array) Items() []Value {
	items, _ := a.Data.([]Value)
	return items
}

// StrAt returns element i of a KindStr array without trailing NULs.
func (a *Array) StrAt(i int) string {
	runes, _ := a.Data.([]rune)
	w := a.DType.Width

	return strings.TrimRight(string(runes[i*w:(i+1)*w]), "\x00")
}

// BytesAt returns element i of a KindBytes array without trailing NULs.
func (a *Array) BytesAt(i int) []byte {
	raw, _ := a.Data.([]byte)
	w := a.DType.Width

	elem := raw[i*w : (i+1)*w]
	end := len(elem)

	for end > 0 && elem[end-1] == 0 {
		end--
	}

	return slices.Clone(elem[:end])
}
