package marshaller_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// stubMarshaller scores values with a fixed function.
type stubMarshaller struct {
	name  string
	tags  []string
	score func(v value.Value) int
	node  int
}

func (s stubMarshaller) Name() string   { return s.name }
func (s stubMarshaller) Tags() []string { return s.tags }

func (s stubMarshaller) Match(v value.Value) int {
	return s.score(v)
}

func (s stubMarshaller) MatchNode(_ store.Node, _ marshaller.Attrs) int {
	return s.node
}

func (stubMarshaller) Write(context.Context, marshaller.Writer, store.Node, string, value.Value) error {
	return nil
}

func (stubMarshaller) Read(context.Context, marshaller.Reader, store.Node, marshaller.Attrs) (value.Value, error) {
	return value.Absent{}, nil
}

func always(n int) func(value.Value) int {
	return func(value.Value) int { return n }
}

func onlyText(v value.Value) int {
	if _, ok := v.(value.Text); ok {
		return 10
	}

	return 0
}

func TestRegistry_Select(t *testing.T) {
	t.Parallel()

	generic := stubMarshaller{name: "generic", tags: []string{"any"}, score: always(1)}
	text := stubMarshaller{name: "text", tags: []string{"str"}, score: onlyText}
	tie := stubMarshaller{name: "tie", tags: []string{"any"}, score: always(1)}

	reg := marshaller.NewRegistry(generic, text, tie)

	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"most specific wins", value.Text("x"), "text"},
		{"ties go to the first registered", value.Int(1), "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := reg.Select(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Name())
		})
	}

	assert.Len(t, reg.Marshallers(), 3)
}

func TestRegistry_NoMatch(t *testing.T) {
	t.Parallel()

	reg := marshaller.NewRegistry(stubMarshaller{name: "text", score: onlyText})

	_, err := reg.Select(value.Int(1))
	require.ErrorIs(t, err, marshaller.ErrNoMarshaller)

	reg.SetFallback(stubMarshaller{name: "fallback", tags: []string{"custom"}, score: always(1)})

	m, err := reg.Select(value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, "fallback", m.Name())

	m, ok := reg.SelectByTag("custom")
	require.True(t, ok)
	assert.Equal(t, "fallback", m.Name())
}

func TestRegistry_SelectByTag(t *testing.T) {
	t.Parallel()

	first := stubMarshaller{name: "first", tags: []string{"a", "b"}, score: always(0)}
	second := stubMarshaller{name: "second", tags: []string{"b", "c"}, score: always(0)}

	reg := marshaller.NewRegistry(first, second)

	for tag, want := range map[string]string{"a": "first", "b": "first", "c": "second"} {
		m, ok := reg.SelectByTag(tag)
		require.True(t, ok, tag)
		assert.Equal(t, want, m.Name(), tag)
	}

	_, ok := reg.SelectByTag("missing")
	assert.False(t, ok)
}

func TestRegistry_SelectByNode(t *testing.T) {
	t.Parallel()

	low := stubMarshaller{name: "low", score: always(0), node: 1}
	high := stubMarshaller{name: "high", score: always(0), node: 5}
	none := stubMarshaller{name: "none", score: always(0), node: 0}

	node := store.Node{Path: "/a", Kind: store.KindDataset}

	m, err := marshaller.NewRegistry(low, high, none).SelectByNode(node, nil)
	require.NoError(t, err)
	assert.Equal(t, "high", m.Name())

	_, err = marshaller.NewRegistry(none).SelectByNode(node, nil)
	require.ErrorIs(t, err, marshaller.ErrNoMarshaller)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	attrs := marshaller.Attrs{
		marshaller.AttrTypeTag:      store.StrAttr("dict"),
		marshaller.AttrElementOrder: store.StrsAttr([]string{"b", "a"}),
		marshaller.AttrElementCount: store.IntAttr(2),
		marshaller.AttrShape:        store.IntsAttr([]int64{2, 3}),
		marshaller.AttrIsEmpty:      store.BoolAttr(true),
	}

	tag, ok := attrs.Str(marshaller.AttrTypeTag)
	require.True(t, ok)
	assert.Equal(t, "dict", tag)

	order, ok := attrs.Strs(marshaller.AttrElementOrder)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, order)

	count, ok := attrs.Int(marshaller.AttrElementCount)
	require.True(t, ok)
	assert.Equal(t, int64(2), count)

	shape, ok := attrs.Ints(marshaller.AttrShape)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 3}, shape)

	assert.True(t, attrs.Bool(marshaller.AttrIsEmpty))
	assert.False(t, attrs.Bool(marshaller.AttrCompatEmpty))

	_, ok = attrs.Str(marshaller.AttrElementCount)
	assert.False(t, ok, "kind mismatch must not convert")

	_, ok = attrs.Int("missing")
	assert.False(t, ok)
}
