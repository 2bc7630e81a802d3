package marshaller_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/store"
)

func TestMarshalError(t *testing.T) {
	t.Parallel()

	parentErr := errors.New("engine failure")

	t.Run("with parent error", func(t *testing.T) {
		t.Parallel()

		err := marshaller.NewMarshalError("/a", parentErr)
		require.Error(t, err)
		assert.Equal(t, "Failed to marshal /a: engine failure", err.Error())

		var marshalErr marshaller.MarshalError
		require.ErrorAs(t, err, &marshalErr)
		assert.Equal(t, "/a", marshalErr.Path)
		assert.Equal(t, parentErr, marshalErr.Unwrap())
	})

	t.Run("with nil parent error", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, marshaller.NewMarshalError("/a", nil))
	})
}

func TestUnmarshalError(t *testing.T) {
	t.Parallel()

	parentErr := errors.New("engine failure")

	t.Run("with parent error", func(t *testing.T) {
		t.Parallel()

		err := marshaller.NewUnmarshalError("/b", parentErr)
		require.Error(t, err)
		assert.Equal(t, "Failed to unmarshal /b: engine failure", err.Error())
		require.ErrorIs(t, err, parentErr)
	})

	t.Run("with nil parent error", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, marshaller.NewUnmarshalError("/b", nil))
	})
}

func TestTaxonomy_Messages(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unsupported without cause",
			err:  marshaller.NewUnsupportedTypeError("/x", "chan", nil),
			want: "unsupported type chan at /x",
		},
		{
			name: "unsupported with cause",
			err:  marshaller.NewUnsupportedTypeError("/x", "chan", cause),
			want: "unsupported type chan at /x: cause",
		},
		{
			name: "encoding",
			err:  marshaller.NewEncodingError("/x", cause),
			want: "encoding error at /x: cause",
		},
		{
			name: "corrupt",
			err:  marshaller.NewCorruptDataError("/x", cause),
			want: "corrupt data at /x: cause",
		},
		{
			name: "corruptf",
			err:  marshaller.Corruptf("/x", "shape %v", []int{1, 2}),
			want: "corrupt data at /x: shape [1 2]",
		},
		{
			name: "storage",
			err:  marshaller.NewStorageIOError("/x", cause),
			want: "storage error at /x: cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTaxonomy_NilParent(t *testing.T) {
	t.Parallel()

	require.NoError(t, marshaller.NewEncodingError("/x", nil))
	require.NoError(t, marshaller.NewCorruptDataError("/x", nil))
	require.NoError(t, marshaller.NewStorageIOError("/x", nil))
}

func TestFromStorage(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, marshaller.FromStorage("/x", nil))
	})

	t.Run("integrity failure is corrupt data", func(t *testing.T) {
		t.Parallel()

		err := marshaller.FromStorage("/x", fmt.Errorf("read: %w", store.ErrChecksum))

		var corrupt marshaller.CorruptDataError
		require.ErrorAs(t, err, &corrupt)
		require.ErrorIs(t, err, store.ErrChecksum)
		assert.Equal(t, "/x", corrupt.Path)
	})

	t.Run("engine failure is storage error", func(t *testing.T) {
		t.Parallel()

		err := marshaller.FromStorage("/x", store.ErrClosed)

		var storageErr marshaller.StorageIOError
		require.ErrorAs(t, err, &storageErr)
		require.ErrorIs(t, err, store.ErrClosed)
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		t.Parallel()

		orig := marshaller.Corruptf("/x/y", "bad")
		assert.Equal(t, orig, marshaller.FromStorage("/x", orig))
	})
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	err := marshaller.NewMarshalError("/a", marshaller.NewUnsupportedTypeError("/a/b", "chan", marshaller.ErrMaxDepth))

	var unsupported marshaller.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "/a/b", unsupported.Path)
	assert.Equal(t, "chan", unsupported.Type)
	require.ErrorIs(t, err, marshaller.ErrMaxDepth)
}
