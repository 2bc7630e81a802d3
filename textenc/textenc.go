// Package textenc converts text between its in-memory forms (byte strings,
// fixed-width codepoint strings, variable-width text) and the array forms
// it takes on disk.
//
// Every conversion that changes the element width is an explicit function
// with a stated precondition. Violations return an error wrapping
// ErrWidth or ErrInvalidUTF8 instead of silently reinterpreting memory.
package textenc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/value"
)

const codepointSize = 4

var (
	// ErrInvalidUTF8 is returned when a byte string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 byte sequence")
	// ErrWidth is returned when a buffer length is not a multiple of the
	// target element width, or a value does not fit the target width.
	ErrWidth = errors.New("unsupported character width")
	// ErrNotText is returned when an array of a non-string dtype is passed
	// to a text conversion.
	ErrNotText = errors.New("array is not text")
	// ErrCodepoint is returned when a 32-bit unit is a surrogate or lies
	// beyond the last Unicode codepoint.
	ErrCodepoint = errors.New("invalid codepoint")
)

// DecodeUTF8 decodes b into codepoints.
func DecodeUTF8(b []byte) ([]rune, error) {
	if !utf8.Valid(b) {
		for i := 0; i < len(b); {
			r, size := utf8.DecodeRune(b[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, fmt.Errorf("%w at offset %d", ErrInvalidUTF8, i)
			}

			i += size
		}
	}

	return []rune(string(b)), nil
}

// WidenBytes promotes every byte to a codepoint of the same value.
func WidenBytes(b []byte) []rune {
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = rune(c)
	}

	return out
}

// NarrowCodepoints is the inverse of WidenBytes. Every codepoint must be
// below 256.
func NarrowCodepoints(runes []rune) ([]byte, error) {
	out := make([]byte, len(runes))

	for i, r := range runes {
		if r < 0 || r > 0xff {
			return nil, fmt.Errorf("%w: codepoint %U at %d does not fit 8 bits", ErrWidth, r, i)
		}

		out[i] = byte(r)
	}

	return out, nil
}

// CodepointsToLE lays codepoints out as consecutive little-endian 32-bit
// units.
func CodepointsToLE(runes []rune) []byte {
	out := make([]byte, len(runes)*codepointSize)
	for i, r := range runes {
		binary.LittleEndian.PutUint32(out[i*codepointSize:], uint32(r)) //nolint:gosec
	}

	return out
}

// LEToCodepoints recombines little-endian 32-bit units into codepoints.
// len(b) must be a multiple of 4 and every unit a valid codepoint.
func LEToCodepoints(b []byte) ([]rune, error) {
	if len(b)%codepointSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrWidth, len(b), codepointSize)
	}

	out := make([]rune, len(b)/codepointSize)
	for i := range out {
		unit := binary.LittleEndian.Uint32(b[i*codepointSize:])
		if unit > utf8.MaxRune || !utf8.ValidRune(rune(unit)) {
			return nil, fmt.Errorf("%w: %#x at unit %d", ErrCodepoint, unit, i)
		}

		out[i] = rune(unit) //nolint:gosec
	}

	return out, nil
}

// FixedToCodepoints converts a codepoint string array of width W and
// shape (..., N) into a uint32 array of shape (..., N*W). A 0-d array is
// treated as shape (1,). Arrays holding no data become uint32 (0,).
func FixedToCodepoints(arr *value.Array) (*value.Array, error) {
	if arr.DType.Kind != dtype.KindStr {
		return nil, fmt.Errorf("%w: %s", ErrNotText, arr.DType)
	}

	runes, _ := arr.Data.([]rune)
	if len(runes) == 0 {
		return value.Numeric([]uint32{}), nil
	}

	shape := slices.Clone(arr.AtLeast1D().Shape)
	shape[len(shape)-1] *= arr.DType.Width

	out := make([]uint32, len(runes))
	for i, r := range runes {
		out[i] = uint32(r) //nolint:gosec
	}

	return value.New(dtype.Uint32, shape, out)
}

// CodepointsToFixed is the inverse of FixedToCodepoints: it rebuilds a
// codepoint string array of the given width and shape from uint32 data.
// The number of codepoints must equal size(shape)*width.
func CodepointsToFixed(codes *value.Array, width int, shape []int) (*value.Array, error) {
	data, ok := codes.Data.([]uint32)
	if !ok {
		return nil, fmt.Errorf("%w: codepoints must be uint32, got %s", ErrNotText, codes.DType)
	}

	want := value.ShapeSize(shape) * width
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d codepoints cannot form U%d%v", ErrWidth, len(data), width, shape)
	}

	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c) //nolint:gosec
	}

	return value.New(dtype.Str(width), shape, runes)
}

// PackRows compacts every row of a codepoint string array into a single
// string: shape (..., N) with width W becomes shape (..., 1) with width
// N*W. A 0-d array is treated as shape (1,). The underlying buffer is
// shared, since the row-major layout is identical.
func PackRows(arr *value.Array) (*value.Array, error) {
	if arr.DType.Kind != dtype.KindStr {
		return nil, fmt.Errorf("%w: %s", ErrNotText, arr.DType)
	}

	arr = arr.AtLeast1D()

	shape := slices.Clone(arr.Shape)
	n := shape[len(shape)-1]
	shape[len(shape)-1] = 1

	return value.New(dtype.Str(n*arr.DType.Width), shape, arr.Data)
}

// WidenRows packs the rows of a byte string array like PackRows and then
// promotes every byte to a codepoint: S<W> (..., N) becomes U<N*W> (..., 1).
func WidenRows(arr *value.Array) (*value.Array, error) {
	if arr.DType.Kind != dtype.KindBytes {
		return nil, fmt.Errorf("%w: %s", ErrNotText, arr.DType)
	}

	arr = arr.AtLeast1D()
	raw, _ := arr.Data.([]byte)

	shape := slices.Clone(arr.Shape)
	n := shape[len(shape)-1]
	shape[len(shape)-1] = 1

	return value.New(dtype.Str(n*arr.DType.Width), shape, WidenBytes(raw))
}

// TextToCells lays a codepoint string array out as fixed-width character
// cells of 4 bytes, one UTF-32LE codepoint per cell. Rows are packed
// first, so shape (..., N) with width W becomes cells of shape (..., N*W).
func TextToCells(arr *value.Array) ([]byte, []int, error) {
	packed, err := PackRows(arr)
	if err != nil {
		return nil, nil, err
	}

	runes, _ := packed.Data.([]rune)

	shape := slices.Clone(packed.Shape)
	shape[len(shape)-1] = packed.DType.Width

	return CodepointsToLE(runes), shape, nil
}

// CellsToText is the inverse of TextToCells for any cell width W: a cell
// array of shape (..., N) is read as one string of N*W/4 codepoints per
// row, giving shape (..., 1). N*W must be a multiple of 4.
func CellsToText(cells []byte, shape []int, cellWidth int) (*value.Array, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: character cells need at least one dimension", ErrWidth)
	}

	n := shape[len(shape)-1]
	if (n*cellWidth)%codepointSize != 0 {
		return nil, fmt.Errorf("%w: %d cells of %d bytes do not form whole codepoints", ErrWidth, n, cellWidth)
	}

	if len(cells) != value.ShapeSize(shape)*cellWidth {
		return nil, fmt.Errorf("%w: %d bytes do not fill %v cells of %d bytes", ErrWidth, len(cells), shape, cellWidth)
	}

	runes, err := LEToCodepoints(cells)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(shape)
	out[len(out)-1] = 1

	return value.New(dtype.Str(n*cellWidth/codepointSize), out, runes)
}
