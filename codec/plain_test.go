package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/oracle"
	"github.com/tarantool/go-valuestore/value"
)

func TestPlain_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := map[string]value.Value{
		"absent":    value.Absent{},
		"int":       value.Int(3),
		"complex":   value.Complex(1 + 1i),
		"text":      value.Text("hé"),
		"empty":     value.Text(""),
		"bytes":     value.Bytes("\x00ab"),
		"strs":      value.Strs([]string{"ab", "c"}),
		"empty str": value.StrScalar(""),
		"matrix":    value.Numeric([]uint8{1, 2, 3, 4}, 2, 2),
		"list":      value.NewList(value.Int(1), value.Text("x")),
		"set":       value.NewSet(value.Int(1)),
		"mapping": value.MappingOf([]string{"k"}, map[string]value.Value{
			"k": value.NewDeque(value.Absent{}),
		}),
	}

	for name, v := range samples {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, _ := roundTrip(t, codec.Plain, v)
			require.NoError(t, oracle.Check(got, v, codec.Plain))
		})
	}
}

func TestPlain_Layout(t *testing.T) {
	t.Parallel()

	file := newFile(t)
	write(t, file, codec.Plain, value.Text("hé"))

	ds, attrs := inspect(t, file, "/v")
	assert.Equal(t, dtype.Bytes(3), ds.DType)
	assert.Equal(t, []int{}, ds.Shape)
	assert.Equal(t, []byte("hé"), ds.Data)
	assert.Empty(t, attrs)

	got, err := read(t, file, codec.Plain, "/v")
	require.NoError(t, err)
	require.NoError(t, oracle.Check(got, value.BytesScalar([]byte("hé")), codec.Native))
}
