package codec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/driver/memory"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

func newFile(t *testing.T) *store.File {
	t.Helper()

	file, err := store.Open(context.Background(), memory.New(), "test")
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	return file
}

func newSession(t *testing.T, file *store.File, p codec.Profile, opts ...codec.Option) *codec.Session {
	t.Helper()

	session, err := codec.NewSession(file, p, opts...)
	require.NoError(t, err)

	return session
}

func write(t *testing.T, file *store.File, p codec.Profile, v value.Value) {
	t.Helper()

	require.NoError(t, newSession(t, file, p).WriteValue(context.Background(), file.Root(), "v", v))
}

func read(t *testing.T, file *store.File, p codec.Profile, path string) (value.Value, error) {
	t.Helper()

	node, found, err := file.Lookup(context.Background(), path)
	require.NoError(t, err)
	require.True(t, found, path)

	return newSession(t, file, p).ReadValue(context.Background(), node)
}

// roundTrip writes v as /v with a fresh session and reads it back with
// another one.
func roundTrip(t *testing.T, p codec.Profile, v value.Value) (value.Value, *store.File) {
	t.Helper()

	file := newFile(t)
	write(t, file, p, v)

	got, err := read(t, file, p, "/v")
	require.NoError(t, err)

	return got, file
}

func inspect(t *testing.T, file *store.File, path string) (store.Dataset, map[string]store.Attr) {
	t.Helper()

	ctx := context.Background()

	node, found, err := file.Lookup(ctx, path)
	require.NoError(t, err)
	require.True(t, found, path)

	attrs, err := file.Attributes(ctx, node)
	require.NoError(t, err)

	if node.IsGroup() {
		return store.Dataset{}, attrs
	}

	ds, err := file.ReadDataset(ctx, node)
	require.NoError(t, err)

	return ds, attrs
}
