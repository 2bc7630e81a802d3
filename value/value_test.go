package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/value"
)

func TestMapping_Order(t *testing.T) {
	t.Parallel()

	m := value.NewMapping()
	m.Set("b", value.Int(1))
	m.Set("a", value.Int(2))
	m.Set("b", value.Int(3))

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, value.Int(3), v)

	m.Delete("b")
	m.Delete("missing")
	assert.Equal(t, []string{"a"}, m.Keys())

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
	}

	assert.Equal(t, []string{"a"}, seen)
}

func TestSeqKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "deque", value.Deque.String())
	assert.Equal(t, "SeqKind[42]", value.SeqKind(42).String())
	assert.True(t, value.Set.Unordered())
	assert.True(t, value.FrozenSet.Unordered())
	assert.False(t, value.Tuple.Unordered())
	assert.Equal(t, 2, value.NewTuple(value.Int(1), value.Text("a")).Len())
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "absent", value.TypeName(value.Absent{}))
	assert.Equal(t, "array[U3]", value.TypeName(value.StrScalar("abc")))
	assert.Equal(t, "frozenset", value.TypeName(value.NewFrozenSet()))
	assert.Equal(t, "nil", value.TypeName(nil))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := value.New(dtype.Float64, []int{2, 2}, []float64{1, 2, 3})
	require.ErrorIs(t, err, value.ErrShapeMismatch)

	_, err = value.New(dtype.Float64, []int{1}, []int64{1})
	require.ErrorIs(t, err, value.ErrDataType)

	_, err = value.New(dtype.Str(2), []int{2}, []rune("abcd"))
	require.NoError(t, err)

	_, err = value.New(dtype.Int8, []int{-1}, []int8{})
	require.ErrorIs(t, err, value.ErrShapeMismatch)
}

func TestArray_Constructors(t *testing.T) {
	t.Parallel()

	arr := value.Numeric([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	assert.Equal(t, dtype.Int32, arr.DType)
	assert.Equal(t, 6, arr.Size())
	assert.Equal(t, 2, arr.NDim())

	sc := value.Scalar(complex64(1 + 2i))
	assert.Equal(t, dtype.Complex64, sc.DType)
	assert.Empty(t, sc.Shape)
	assert.Equal(t, 1, sc.Size())

	strs := value.Strs([]string{"a", "abc"})
	assert.Equal(t, dtype.Str(3), strs.DType)
	assert.Equal(t, "a", strs.StrAt(0))
	assert.Equal(t, "abc", strs.StrAt(1))

	bs := value.ByteStrs([][]byte{[]byte("xy"), []byte("z")})
	assert.Equal(t, dtype.Bytes(2), bs.DType)
	assert.Equal(t, []byte("z"), bs.BytesAt(1))

	empty := value.Strs(nil)
	assert.Equal(t, dtype.Str(1), empty.DType)
	assert.Equal(t, []int{0}, empty.Shape)

	assert.Equal(t, dtype.Str(0), value.StrScalar("").DType)
	assert.Equal(t, dtype.Bytes(3), value.BytesScalar([]byte("abc")).DType)
}

func TestArray_AtLeast(t *testing.T) {
	t.Parallel()

	sc := value.Scalar(int64(5))
	assert.Equal(t, []int{1}, sc.AtLeast1D().Shape)
	assert.Equal(t, []int{1, 1}, sc.AtLeast2D().Shape)

	vec := value.Numeric([]float64{1, 2, 3})
	assert.Equal(t, []int{3}, vec.AtLeast1D().Shape)
	assert.Equal(t, []int{1, 3}, vec.AtLeast2D().Shape)

	mat := value.Numeric([]float64{1, 2, 3, 4}, 2, 2)
	assert.Same(t, mat, mat.AtLeast2D())

	emptyVec := value.Numeric([]float64{})
	assert.Equal(t, []int{1, 0}, emptyVec.AtLeast2D().Shape)
}

func TestArray_Reshape(t *testing.T) {
	t.Parallel()

	vec := value.Numeric([]uint16{1, 2, 3, 4})

	mat, err := vec.Reshape(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, mat.Shape)

	_, err = vec.Reshape(3)
	require.ErrorIs(t, err, value.ErrShapeMismatch)
}

func TestArray_RealPart(t *testing.T) {
	t.Parallel()

	c := value.Numeric([]complex128{1 + 2i, 3 - 4i})
	r := c.RealPart()
	assert.Equal(t, dtype.Float64, r.DType)
	assert.Equal(t, []float64{1, 3}, r.Data)

	c64 := value.Numeric([]complex64{}, 1, 0)
	r64 := c64.RealPart()
	assert.Equal(t, dtype.Float32, r64.DType)
	assert.Equal(t, []int{1, 0}, r64.Shape)

	f := value.Numeric([]float64{1})
	assert.Same(t, f, f.RealPart())
}

func TestZeros(t *testing.T) {
	t.Parallel()

	z := value.Zeros(dtype.Str(1), 1, 0)
	assert.Equal(t, []int{1, 0}, z.Shape)
	assert.Empty(t, z.Data)

	obj := value.Zeros(dtype.Object, 2)
	assert.Len(t, obj.Items(), 2)
}
