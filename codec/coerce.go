package codec

import (
	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/textenc"
	"github.com/tarantool/go-valuestore/value"
)

// CompatForm returns v the way the compat profile reads it back: every
// value becomes an array of at least two dimensions or a mapping, text
// becomes row-packed codepoint strings, empty complex arrays lose their
// imaginary part and containers become object arrays.
func CompatForm(v value.Value) (value.Value, error) {
	return CompatFormDepth(v, DefaultMaxDepth)
}

// CompatFormDepth is like CompatForm with a nesting limit of maxDepth.
// A non-positive maxDepth selects DefaultMaxDepth.
func CompatFormDepth(v value.Value, maxDepth int) (value.Value, error) {
	return deepForm(namer.Root, v, compatShallow, formDepth(maxDepth))
}

// PlainForm returns v the way the plain profile reads it back: scalars
// become 0-d arrays, text and byte strings 0-d byte string arrays,
// codepoint arrays uint32 arrays and containers object arrays.
func PlainForm(v value.Value) (value.Value, error) {
	return PlainFormDepth(v, DefaultMaxDepth)
}

// PlainFormDepth is like PlainForm with a nesting limit of maxDepth.
// A non-positive maxDepth selects DefaultMaxDepth.
func PlainFormDepth(v value.Value, maxDepth int) (value.Value, error) {
	return deepForm(namer.Root, v, plainShallow, formDepth(maxDepth))
}

func formDepth(maxDepth int) int {
	if maxDepth <= 0 {
		return DefaultMaxDepth
	}

	return maxDepth
}

type shallowForm func(path string, v value.Value) (value.Value, error)

// deepForm applies shallow to v and its descendants; left is the number
// of nesting levels still allowed.
func deepForm(path string, v value.Value, shallow shallowForm, left int) (value.Value, error) {
	if left <= 0 {
		return nil, marshaller.NewUnsupportedTypeError(path, value.TypeName(v), marshaller.ErrMaxDepth)
	}

	out, err := shallow(path, v)
	if err != nil {
		return nil, err
	}

	switch val := out.(type) {
	case *value.Mapping:
		m := value.NewMapping()

		for key, item := range val.All() {
			item, err := deepForm(namer.Join(path, key), item, shallow, left-1)
			if err != nil {
				return nil, err
			}

			m.Set(key, item)
		}

		return m, nil
	case *value.Array:
		if val.DType.Kind != dtype.KindObject {
			return val, nil
		}

		items := make([]value.Value, len(val.Items()))

		for i, item := range val.Items() {
			items[i], err = deepForm(namer.Join(path, RefsGroup), item, shallow, left-1)
			if err != nil {
				return nil, err
			}
		}

		return value.Objects(items, val.Shape...), nil
	default:
		return out, nil
	}
}

// emptyChars is the compat form of every empty text value.
func emptyChars() *value.Array {
	return value.Zeros(dtype.Str(1), 1, 0)
}

func emptyString(arr *value.Array) bool {
	switch {
	case arr.Size() == 0 || arr.DType.Width == 0:
		return true
	case arr.NDim() != 0:
		return false
	case arr.DType.Kind == dtype.KindStr:
		return arr.StrAt(0) == ""
	default:
		return len(arr.BytesAt(0)) == 0
	}
}

func compatDecoded(path string, b []byte) (value.Value, error) {
	runes, err := textenc.DecodeUTF8(b)
	if err != nil {
		return nil, marshaller.NewEncodingError(path, err)
	}

	return compatRunes(runes), nil
}

func compatRunes(runes []rune) *value.Array {
	if len(runes) == 0 {
		return emptyChars()
	}

	return value.Must(dtype.Str(len(runes)), []int{1, 1}, runes)
}

//nolint:cyclop
func compatShallow(path string, v value.Value) (value.Value, error) {
	switch val := v.(type) {
	case value.Absent:
		return value.Zeros(dtype.Float64, 1, 0), nil
	case value.Bool:
		return value.Scalar(bool(val)).AtLeast2D(), nil
	case value.Int:
		return value.Scalar(int64(val)).AtLeast2D(), nil
	case value.Float:
		return value.Scalar(float64(val)).AtLeast2D(), nil
	case value.Complex:
		return value.Scalar(complex128(val)).AtLeast2D(), nil
	case value.Text:
		return compatDecoded(path, []byte(val))
	case value.Bytes:
		return compatDecoded(path, val)
	case value.ByteArray:
		return compatDecoded(path, val)
	case *value.Sequence:
		if val == nil {
			break
		}

		return value.Objects(val.Items).AtLeast2D(), nil
	case *value.Mapping:
		if val == nil {
			break
		}

		return val, nil
	case *value.Array:
		if val == nil {
			break
		}

		return compatArray(path, val)
	}

	return nil, marshaller.NewUnsupportedTypeError(path, value.TypeName(v), marshaller.ErrNoMarshaller)
}

func compatArray(path string, arr *value.Array) (value.Value, error) {
	if _, err := value.New(arr.DType, arr.Shape, arr.Data); err != nil {
		return nil, marshaller.NewUnsupportedTypeError(path, value.TypeName(arr), err)
	}

	switch {
	case arr.DType.IsString() && emptyString(arr):
		return emptyChars(), nil
	case arr.DType.Kind == dtype.KindStr:
		packed, err := textenc.PackRows(arr)
		if err != nil {
			return nil, marshaller.NewEncodingError(path, err)
		}

		return packed.AtLeast2D(), nil
	case arr.DType.Kind == dtype.KindBytes:
		widened, err := textenc.WidenRows(arr)
		if err != nil {
			return nil, marshaller.NewEncodingError(path, err)
		}

		return widened.AtLeast2D(), nil
	case arr.DType.IsComplex() && arr.Size() == 0:
		return arr.RealPart().AtLeast2D(), nil
	default:
		return arr.AtLeast2D(), nil
	}
}

//nolint:cyclop
func plainShallow(path string, v value.Value) (value.Value, error) {
	switch val := v.(type) {
	case value.Absent:
		return value.Zeros(dtype.Float64, 0), nil
	case value.Bool:
		return value.Scalar(bool(val)), nil
	case value.Int:
		return value.Scalar(int64(val)), nil
	case value.Float:
		return value.Scalar(float64(val)), nil
	case value.Complex:
		return value.Scalar(complex128(val)), nil
	case value.Text:
		return value.BytesScalar([]byte(val)), nil
	case value.Bytes:
		return value.BytesScalar(val), nil
	case value.ByteArray:
		return value.BytesScalar(val), nil
	case *value.Sequence:
		if val == nil {
			break
		}

		return value.Objects(val.Items), nil
	case *value.Mapping:
		if val == nil {
			break
		}

		return val, nil
	case *value.Array:
		if val == nil {
			break
		}

		if _, err := value.New(val.DType, val.Shape, val.Data); err != nil {
			return nil, marshaller.NewUnsupportedTypeError(path, value.TypeName(val), err)
		}

		if val.DType.Kind != dtype.KindStr {
			return val, nil
		}

		codes, err := textenc.FixedToCodepoints(val)
		if err != nil {
			return nil, marshaller.NewEncodingError(path, err)
		}

		return codes, nil
	}

	return nil, marshaller.NewUnsupportedTypeError(path, value.TypeName(v), marshaller.ErrNoMarshaller)
}
