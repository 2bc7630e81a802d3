package tkv //nolint:testpackage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-valuestore/driver"
)

func TestTxnRequest_Encode(t *testing.T) {
	t.Parallel()

	req := newTxnRequest(
		[]driver.Predicate{driver.Missing([]byte("/f/a"))},
		[]driver.Operation{
			driver.Put([]byte("/f/a"), []byte("v")),
			driver.GetPrefix([]byte("/f/a/")),
		},
		[]driver.Operation{driver.Delete([]byte("/f/a"))},
	)

	data, err := msgpack.Marshal(req)
	require.NoError(t, err)

	var decoded map[string][][]any
	require.NoError(t, msgpack.Unmarshal(data, &decoded))

	require.Len(t, decoded["predicates"], 1)
	assert.Equal(t, "mod_revision", decoded["predicates"][0][0])
	assert.Equal(t, "==", decoded["predicates"][0][1])
	assert.EqualValues(t, 0, decoded["predicates"][0][2])
	assert.Equal(t, "/f/a", decoded["predicates"][0][3])

	require.Len(t, decoded["on_success"], 2)
	assert.Equal(t, []any{"put", "/f/a", "v"}, decoded["on_success"][0])
	assert.Equal(t, []any{"get", "/f/a/"}, decoded["on_success"][1])

	require.Len(t, decoded["on_failure"], 1)
	assert.Equal(t, []any{"delete", "/f/a"}, decoded["on_failure"][0])
}

func TestTxnResponse_Decode(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"revision": 12,
		"data": map[string]any{
			"is_success": true,
			"responses": []any{
				[]any{
					map[string]any{"path": "/f/a", "mod_revision": 5, "value": "x"},
					map[string]any{"path": "/f/b", "value": "y"},
				},
				nil,
			},
		},
	}

	data, err := msgpack.Marshal(raw)
	require.NoError(t, err)

	var resp txnResponse
	require.NoError(t, msgpack.Unmarshal(data, &resp))

	converted := resp.asResponse()
	assert.True(t, converted.Succeeded)
	require.Len(t, converted.Results, 2)
	require.Len(t, converted.Results[0].Values, 2)
	assert.Equal(t, []byte("/f/a"), converted.Results[0].Values[0].Key)
	assert.Equal(t, int64(5), converted.Results[0].Values[0].ModRevision)
	assert.Equal(t, int64(12), converted.Results[0].Values[1].ModRevision, "missing revision falls back to txn revision")
	assert.Empty(t, converted.Results[1].Values)
}
