// Package oracle decides whether a value read back from a store is
// faithful to the value that was written, under the conventions of a
// profile.
package oracle

import (
	"bytes"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/value"
)

// MismatchError describes the first difference found by Check.
type MismatchError struct {
	Path   string
	Reason string
}

// Error returns a string representation of the error.
func (e MismatchError) Error() string {
	return fmt.Sprintf("values differ at %s: %s", e.Path, e.Reason)
}

func mismatch(path string, format string, args ...any) error {
	return MismatchError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Equal reports whether decoded is an acceptable result of writing and
// reading original in profile p.
func Equal(decoded, original value.Value, p codec.Profile) bool {
	return Check(decoded, original, p) == nil
}

// Check is like Equal but returns a MismatchError naming the first
// difference. Under Compat and Plain original is first coerced with the
// rules of the profile; a value that cannot be coerced is reported as is.
func Check(decoded, original value.Value, p codec.Profile) error {
	return CheckDepth(decoded, original, p, codec.DefaultMaxDepth)
}

// CheckDepth is like Check but coerces original with a nesting limit of
// maxDepth, matching a session opened with codec.WithMaxDepth.
func CheckDepth(decoded, original value.Value, p codec.Profile, maxDepth int) error {
	var (
		want value.Value
		err  error
	)

	switch p {
	case codec.Native:
		want = original
	case codec.Compat:
		want, err = codec.CompatFormDepth(original, maxDepth)
	case codec.Plain:
		want, err = codec.PlainFormDepth(original, maxDepth)
	default:
		return fmt.Errorf("%w: %s", codec.ErrUnknownProfile, p)
	}

	if err != nil {
		return err
	}

	return compare(namer.Root, decoded, want)
}

//nolint:cyclop
func compare(path string, got, want value.Value) error {
	if value.TypeName(got) != value.TypeName(want) {
		return mismatch(path, "got %s, want %s", value.TypeName(got), value.TypeName(want))
	}

	switch w := want.(type) {
	case value.Absent:
		return nil
	case value.Bool, value.Int, value.Text:
		if got != want {
			return mismatch(path, "got %v, want %v", got, want)
		}
	case value.Float:
		if !floatEqual(float64(got.(value.Float)), float64(w)) { //nolint:forcetypeassert
			return mismatch(path, "got %v, want %v", got, want)
		}
	case value.Complex:
		if !complexEqual(complex128(got.(value.Complex)), complex128(w)) { //nolint:forcetypeassert
			return mismatch(path, "got %v, want %v", got, want)
		}
	case value.Bytes:
		if !bytes.Equal(got.(value.Bytes), w) { //nolint:forcetypeassert
			return mismatch(path, "got %q, want %q", got, want)
		}
	case value.ByteArray:
		if !bytes.Equal(got.(value.ByteArray), w) { //nolint:forcetypeassert
			return mismatch(path, "got %q, want %q", got, want)
		}
	case *value.Array:
		return compareArrays(path, got.(*value.Array), w) //nolint:forcetypeassert
	case *value.Mapping:
		return compareMappings(path, got.(*value.Mapping), w) //nolint:forcetypeassert
	case *value.Sequence:
		return compareSequences(path, got.(*value.Sequence), w) //nolint:forcetypeassert
	default:
		return mismatch(path, "cannot compare %s", value.TypeName(want))
	}

	return nil
}

func compareMappings(path string, got, want *value.Mapping) error {
	gotKeys, wantKeys := slices.Sorted(slices.Values(got.Keys())), slices.Sorted(slices.Values(want.Keys()))
	if !slices.Equal(gotKeys, wantKeys) {
		return mismatch(path, "keys %q, want %q", gotKeys, wantKeys)
	}

	for key, w := range want.All() {
		g, _ := got.Get(key)
		if err := compare(namer.Join(path, key), g, w); err != nil {
			return err
		}
	}

	return nil
}

func compareSequences(path string, got, want *value.Sequence) error {
	if got.Len() != want.Len() {
		return mismatch(path, "length %d, want %d", got.Len(), want.Len())
	}

	if want.Kind.Unordered() {
		return compareUnordered(path, got.Items, want.Items)
	}

	return compareItems(path, got.Items, want.Items)
}

func compareItems(path string, got, want []value.Value) error {
	for i := range want {
		if err := compare(fmt.Sprintf("%s[%d]", path, i), got[i], want[i]); err != nil {
			return err
		}
	}

	return nil
}

// compareUnordered matches every wanted item with a distinct equal item.
func compareUnordered(path string, got, want []value.Value) error {
	used := make([]bool, len(got))

	for i, w := range want {
		found := false

		for j, g := range got {
			if !used[j] && compare(path, g, w) == nil {
				used[j], found = true, true
				break
			}
		}

		if !found {
			return mismatch(fmt.Sprintf("%s[%d]", path, i), "no matching element for %s", value.TypeName(w))
		}
	}

	return nil
}

func compareArrays(path string, got, want *value.Array) error {
	if got.DType != want.DType {
		return mismatch(path, "dtype %s, want %s", got.DType, want.DType)
	}

	if !slices.Equal(got.Shape, want.Shape) {
		return mismatch(path, "shape %v, want %v", got.Shape, want.Shape)
	}

	if want.DType.Kind == dtype.KindObject {
		return compareItems(path, got.Items(), want.Items())
	}

	if !dataEqual(got.Data, want.Data) {
		return mismatch(path, "%s elements differ", want.DType)
	}

	return nil
}

//nolint:cyclop
func dataEqual(got, want any) bool {
	switch w := want.(type) {
	case []bool:
		return sliceEqual(got, w)
	case []int8:
		return sliceEqual(got, w)
	case []int16:
		return sliceEqual(got, w)
	case []int32:
		return sliceEqual(got, w)
	case []int64:
		return sliceEqual(got, w)
	case []uint8:
		return sliceEqual(got, w)
	case []uint16:
		return sliceEqual(got, w)
	case []uint32:
		return sliceEqual(got, w)
	case []uint64:
		return sliceEqual(got, w)
	case []float32:
		return sliceEqualFunc(got, w, func(a, b float32) bool { return floatEqual(float64(a), float64(b)) })
	case []float64:
		return sliceEqualFunc(got, w, floatEqual)
	case []complex64:
		return sliceEqualFunc(got, w, func(a, b complex64) bool { return complexEqual(complex128(a), complex128(b)) })
	case []complex128:
		return sliceEqualFunc(got, w, complexEqual)
	default:
		return false
	}
}

func sliceEqual[T comparable](got any, want []T) bool {
	g, ok := got.([]T)
	return ok && slices.Equal(g, want)
}

func sliceEqualFunc[T any](got any, want []T, eq func(a, b T) bool) bool {
	g, ok := got.([]T)
	return ok && slices.EqualFunc(g, want, eq)
}

// floatEqual treats NaN as equal to itself.
func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func complexEqual(a, b complex128) bool {
	if cmplx.IsNaN(a) || cmplx.IsNaN(b) {
		return floatEqual(real(a), real(b)) && floatEqual(imag(a), imag(b))
	}

	return a == b
}
