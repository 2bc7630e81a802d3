package valuestore_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	valuestore "github.com/tarantool/go-valuestore"
	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/driver"
	"github.com/tarantool/go-valuestore/driver/memory"
	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/hasher"
	"github.com/tarantool/go-valuestore/internal/mocks"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/oracle"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

func sample() *value.Mapping {
	return value.MappingOf(
		[]string{"x", "name", "items", "empty", "grid", "nested"},
		map[string]value.Value{
			"x":     value.Float(1.5),
			"name":  value.Text("sensor"),
			"items": value.NewList(value.Int(1), value.Text("a")),
			"empty": value.Text(""),
			"grid":  value.Numeric([]int32{1, 2, 3, 4, 5, 6}, 2, 3),
			"nested": value.MappingOf([]string{"flag"}, map[string]value.Value{
				"flag": value.Bool(true),
			}),
		},
	)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range []codec.Profile{codec.Native, codec.Compat, codec.Plain} {
		t.Run(p.String(), func(t *testing.T) {
			t.Parallel()

			ctx := t.Context()
			drv := memory.New()
			v := sample()

			require.NoError(t, valuestore.Write(ctx, drv, v, valuestore.WithProfile(p), valuestore.WithSelfCheck()))

			got, err := valuestore.Read(ctx, drv, valuestore.WithProfile(p))
			require.NoError(t, err)
			require.NoError(t, oracle.Check(got, v, p))
		})
	}
}

func TestWriteRead_NativeIsExact(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	v := sample()

	require.NoError(t, valuestore.Write(ctx, drv, v))

	got, err := valuestore.Read(ctx, drv)
	require.NoError(t, err)

	m, ok := got.(*value.Mapping)
	require.True(t, ok)
	assert.Equal(t, v.Keys(), m.Keys())
	assert.True(t, oracle.Equal(got, v, codec.Native))
}

func TestWrite_Path(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()

	require.NoError(t, valuestore.Write(ctx, drv, value.Int(3), valuestore.WithPath("/a/b/c")))
	require.NoError(t, valuestore.Write(ctx, drv, value.Text("d"), valuestore.WithPath("a/b/d/")))

	got, err := valuestore.Read(ctx, drv, valuestore.WithPath("/a/b/c"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), got)

	got, err = valuestore.Read(ctx, drv, valuestore.WithPath("/a/b"))
	require.NoError(t, err)

	m, ok := got.(*value.Mapping)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"c", "d"}, m.Keys())
}

func TestWrite_ReplacesExisting(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	path := valuestore.WithPath("/v")

	require.NoError(t, valuestore.Write(ctx, drv, value.NewList(value.Int(1), value.Int(2)), path))
	require.NoError(t, valuestore.Write(ctx, drv, value.Text("replaced"), path))

	got, err := valuestore.Read(ctx, drv, path)
	require.NoError(t, err)
	assert.Equal(t, value.Text("replaced"), got)
}

func TestWrite_RootKeepsOtherChildren(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()

	first := value.MappingOf([]string{"a", "b"}, map[string]value.Value{"a": value.Int(1), "b": value.Int(2)})
	second := value.MappingOf([]string{"b"}, map[string]value.Value{"b": value.Text("two")})

	require.NoError(t, valuestore.Write(ctx, drv, first))
	require.NoError(t, valuestore.Write(ctx, drv, second, valuestore.WithSelfCheck()))

	values, err := valuestore.Reads(ctx, drv, []string{"/a", "/b"})
	require.NoError(t, err)
	assert.Equal(t, []value.Value{value.Int(1), value.Text("two")}, values)

	got, err := valuestore.Read(ctx, drv)
	require.NoError(t, err)

	m, ok := got.(*value.Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestWrite_DeleteUnused(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()

	first := value.MappingOf([]string{"a", "b"}, map[string]value.Value{
		"a": value.Int(1),
		"b": value.NewList(value.Int(2)),
	})
	second := value.MappingOf([]string{"c"}, map[string]value.Value{"c": value.Int(3)})

	require.NoError(t, valuestore.Write(ctx, drv, first))
	require.NoError(t, valuestore.Write(ctx, drv, second, valuestore.WithDeleteUnused()))

	got, err := valuestore.Read(ctx, drv)
	require.NoError(t, err)
	assert.True(t, oracle.Equal(got, second, codec.Native))

	file, err := store.Open(ctx, drv, valuestore.DefaultFile)
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	_, found, err := file.Lookup(ctx, namer.Join(namer.Root, codec.RefsGroup))
	require.NoError(t, err)
	assert.False(t, found, "stale element references must be removed")
}

func TestWrites_Reads(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()

	items := map[string]value.Value{
		"/z":     value.Bytes("raw"),
		"/g/a":   value.Complex(1 + 2i),
		"/g/b/c": value.Absent{},
	}

	require.NoError(t, valuestore.Writes(ctx, drv, items, valuestore.WithFile("batch")))

	values, err := valuestore.Reads(ctx, drv, []string{"/z", "/g/a", "/g/b/c"}, valuestore.WithFile("batch"))
	require.NoError(t, err)
	assert.Equal(t, []value.Value{value.Bytes("raw"), value.Complex(1 + 2i), value.Absent{}}, values)
}

func TestWrite_FilesAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	path := valuestore.WithPath("/v")

	require.NoError(t, valuestore.Write(ctx, drv, value.Int(1), path, valuestore.WithFile("one")))
	require.NoError(t, valuestore.Write(ctx, drv, value.Int(2), path, valuestore.WithFile("two")))

	got, err := valuestore.Read(ctx, drv, path, valuestore.WithFile("one"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), got)

	got, err = valuestore.Read(ctx, drv, path, valuestore.WithFile("two"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), got)
}

func TestWrite_CompatLayout(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	compat := valuestore.WithProfile(codec.Compat)

	items := map[string]value.Value{
		"/scalar": value.Int(7),
		"/empty":  value.Text(""),
		"/none":   value.Absent{},
	}

	require.NoError(t, valuestore.Writes(ctx, drv, items, compat))

	values, err := valuestore.Reads(ctx, drv, []string{"/scalar", "/empty", "/none"}, compat)
	require.NoError(t, err)

	tests := []struct {
		dt    dtype.DType
		shape []int
	}{
		{dtype.Int64, []int{1, 1}},
		{dtype.Str(1), []int{1, 0}},
		{dtype.Float64, []int{1, 0}},
	}

	for i, tt := range tests {
		arr, ok := values[i].(*value.Array)
		require.True(t, ok)
		assert.Equal(t, tt.dt, arr.DType)
		assert.Equal(t, tt.shape, arr.Shape)
	}
}

func TestWrite_WithHasher(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	opts := []valuestore.Option{valuestore.WithPath("/v"), valuestore.WithHasher(hasher.NewSHA1Hasher())}

	require.NoError(t, valuestore.Write(ctx, drv, value.Numeric([]float64{1, 2}), opts...))

	got, err := valuestore.Read(ctx, drv, opts...)
	require.NoError(t, err)
	assert.Equal(t, value.Numeric([]float64{1, 2}), got)
}

func TestWrite_Errors(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	t.Run("root must be a mapping", func(t *testing.T) {
		t.Parallel()

		err := valuestore.Write(ctx, memory.New(), value.Int(1))

		var unsupported marshaller.UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported)
		require.ErrorIs(t, err, valuestore.ErrRootNotMapping)

		var marshalErr marshaller.MarshalError
		require.ErrorAs(t, err, &marshalErr)
		assert.Equal(t, namer.Root, marshalErr.Path)
	})

	t.Run("no marshaller", func(t *testing.T) {
		t.Parallel()

		err := valuestore.Write(ctx, memory.New(), nil, valuestore.WithPath("/v"))
		require.ErrorIs(t, err, marshaller.ErrNoMarshaller)
	})

	t.Run("invalid path", func(t *testing.T) {
		t.Parallel()

		err := valuestore.Write(ctx, memory.New(), value.Int(1), valuestore.WithPath("/a/../b"))

		var invalid namer.InvalidNameError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("parent is a dataset", func(t *testing.T) {
		t.Parallel()

		drv := memory.New()
		require.NoError(t, valuestore.Write(ctx, drv, value.Int(1), valuestore.WithPath("/x")))

		err := valuestore.Write(ctx, drv, value.Int(2), valuestore.WithPath("/x/y"))

		var storageErr marshaller.StorageIOError
		require.ErrorAs(t, err, &storageErr)
		require.ErrorIs(t, err, store.ErrNotGroup)
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		err := valuestore.Write(ctx, memory.New(), value.Int(1),
			valuestore.WithPath("/v"), valuestore.WithProfile(codec.Profile(42)))
		require.ErrorIs(t, err, codec.ErrUnknownProfile)
	})
}

func TestWrite_RejectedRootKeepsData(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	tests := []struct {
		name string
		keys []string
		opts []valuestore.Option
	}{
		{"reserved key", []string{codec.RefsGroup}, nil},
		{"reserved key with delete unused", []string{codec.RefsGroup}, []valuestore.Option{valuestore.WithDeleteUnused()}},
		{"replaced and invalid keys", []string{"keep", "bad/key"}, nil},
		{"invalid key with delete unused", []string{"other", ""}, []valuestore.Option{valuestore.WithDeleteUnused()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			drv := memory.New()
			kept := value.NewList(value.Int(1), value.Int(2))

			require.NoError(t, valuestore.Write(ctx, drv, kept, valuestore.WithPath("/keep")))

			items := make(map[string]value.Value, len(tt.keys))
			for _, key := range tt.keys {
				items[key] = value.Int(7)
			}

			err := valuestore.Write(ctx, drv, value.MappingOf(tt.keys, items), tt.opts...)

			var unsupported marshaller.UnsupportedTypeError
			require.ErrorAs(t, err, &unsupported)

			got, err := valuestore.Read(ctx, drv, valuestore.WithPath("/keep"))
			require.NoError(t, err)
			require.NoError(t, oracle.Check(got, kept, codec.Native))
		})
	}
}

func TestWrite_ReservedPath(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()
	kept := value.NewList(value.Text("a"))

	require.NoError(t, valuestore.Write(ctx, drv, kept, valuestore.WithPath("/keep")))

	for _, path := range []string{"/" + codec.RefsGroup, "/" + codec.RefsGroup + "/0", codec.RefsGroup + "/x/y"} {
		err := valuestore.Write(ctx, drv, value.Int(1), valuestore.WithPath(path))

		var unsupported marshaller.UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported, path)
		require.ErrorIs(t, err, codec.ErrReservedKey, path)
	}

	got, err := valuestore.Read(ctx, drv, valuestore.WithPath("/keep"))
	require.NoError(t, err)
	require.NoError(t, oracle.Check(got, kept, codec.Native))
}

func TestRead_NotFound(t *testing.T) {
	t.Parallel()

	_, err := valuestore.Read(t.Context(), memory.New(), valuestore.WithPath("/missing"))

	var unmarshalErr marshaller.UnmarshalError
	require.ErrorAs(t, err, &unmarshalErr)
	assert.Equal(t, "/missing", unmarshalErr.Path)

	var storageErr marshaller.StorageIOError
	require.ErrorAs(t, err, &storageErr)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWrite_Logging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	drv := memory.New()

	require.NoError(t, valuestore.Write(t.Context(), drv, value.Int(1),
		valuestore.WithPath("/v"), valuestore.WithFile("logged"), valuestore.WithLogger(zap.New(core))))

	entries := logs.FilterMessage("writing").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "logged", entries[0].ContextMap()["file"])
	assert.Equal(t, "/v", entries[0].ContextMap()["path"])
	assert.Equal(t, "native", entries[0].ContextMap()["profile"])

	err := valuestore.Write(t.Context(), drv, value.Int(1), valuestore.WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("write failed").Len())
}

func TestWrite_SelfCheckHonoursMaxDepth(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	drv := memory.New()

	var v value.Value = value.Int(1)
	for range codec.DefaultMaxDepth + 4 {
		v = value.MappingOf([]string{"n"}, map[string]value.Value{"n": v})
	}

	opts := []valuestore.Option{
		valuestore.WithPath("/deep"),
		valuestore.WithProfile(codec.Compat),
		valuestore.WithMaxDepth(codec.DefaultMaxDepth + 8),
	}

	require.NoError(t, valuestore.Write(ctx, drv, v, append(opts, valuestore.WithSelfCheck())...))

	got, err := valuestore.Read(ctx, drv, opts...)
	require.NoError(t, err)
	require.NoError(t, oracle.CheckDepth(got, v, codec.Compat, codec.DefaultMaxDepth+8))
}

var errUnavailable = errors.New("backend unavailable")

// failingDriver serves calls from backend and fails call number failAt.
func failingDriver(t *testing.T, backend driver.Driver, failAt uint64) *mocks.DriverMock {
	t.Helper()

	var calls atomic.Uint64

	drv := mocks.NewDriverMock(t)
	drv.ExecuteMock.Set(func(
		ctx context.Context,
		predicates []driver.Predicate,
		thenOps []driver.Operation,
		elseOps []driver.Operation,
	) (driver.Response, error) {
		if calls.Add(1) == failAt {
			return driver.Response{}, errUnavailable
		}

		return backend.Execute(ctx, predicates, thenOps, elseOps)
	})

	return drv
}

// countCalls returns the number of driver calls fn makes.
func countCalls(t *testing.T, backend driver.Driver, fn func(drv driver.Driver) error) uint64 {
	t.Helper()

	drv := mocks.NewDriverMock(t)
	drv.ExecuteMock.Set(backend.Execute)

	require.NoError(t, fn(drv))

	return drv.ExecuteAfterCounter()
}

// requireDriverFailure checks that err carries the driver error and that
// the store opened by the call, if any, was closed.
func requireDriverFailure(t *testing.T, err error, logs *observer.ObservedLogs, failAt uint64) {
	t.Helper()

	require.ErrorIs(t, err, errUnavailable)

	var storageErr marshaller.StorageIOError
	require.ErrorAs(t, err, &storageErr)

	closed := 1
	if failAt == 1 {
		closed = 0
	}

	assert.Equal(t, closed, logs.FilterMessage("closed store").Len())
}

func TestWrite_DriverFailures(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	write := func(drv driver.Driver, opts ...valuestore.Option) error {
		return valuestore.Writes(ctx, drv, map[string]value.Value{
			"/":      sample(),
			"/g/seq": value.NewTuple(value.Int(1), value.Bytes("b")),
		}, opts...)
	}

	total := countCalls(t, memory.New(), func(drv driver.Driver) error { return write(drv) })
	require.Greater(t, total, uint64(1))

	for failAt := uint64(1); failAt <= total; failAt++ {
		t.Run(fmt.Sprintf("call %d", failAt), func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			drv := failingDriver(t, memory.New(), failAt)

			err := write(drv, valuestore.WithLogger(zap.New(core)))
			requireDriverFailure(t, err, logs, failAt)
		})
	}
}

func TestRead_DriverFailures(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	backend := memory.New()

	require.NoError(t, valuestore.Write(ctx, backend, sample()))

	total := countCalls(t, backend, func(drv driver.Driver) error {
		_, err := valuestore.Read(ctx, drv)
		return err
	})
	require.Greater(t, total, uint64(1))

	for failAt := uint64(1); failAt <= total; failAt++ {
		t.Run(fmt.Sprintf("call %d", failAt), func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			drv := failingDriver(t, backend, failAt)

			_, err := valuestore.Read(ctx, drv, valuestore.WithLogger(zap.New(core)))
			requireDriverFailure(t, err, logs, failAt)

			var unmarshalErr marshaller.UnmarshalError
			if failAt > 1 {
				require.ErrorAs(t, err, &unmarshalErr)
			}
		})
	}
}
