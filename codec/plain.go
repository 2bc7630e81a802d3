package codec

import (
	"context"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// plainArray stores every non-mapping value in its raw array form.
type plainArray struct{}

func (plainArray) Name() string   { return "plain.array" }
func (plainArray) Tags() []string { return nil }

func (plainArray) Match(v value.Value) int {
	switch val := v.(type) {
	case value.Absent, value.Bool, value.Int, value.Float, value.Complex,
		value.Text, value.Bytes, value.ByteArray:
		return matchGeneric
	case *value.Array:
		if val != nil {
			return matchGeneric
		}
	case *value.Sequence:
		if val != nil {
			return matchGeneric
		}
	}

	return 0
}

func (plainArray) MatchNode(node store.Node, _ marshaller.Attrs) int {
	if node.IsGroup() {
		return 0
	}

	return matchGeneric
}

func (plainArray) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	path := namer.Join(parent.Path, name)

	form, err := plainShallow(path, v)
	if err != nil {
		return err
	}

	arr, ok := form.(*value.Array)
	if !ok {
		return unexpected(path, v)
	}

	if arr.DType.Kind == dtype.KindObject {
		return writeObjectArray(ctx, w, parent, name, arr, nil)
	}

	ds := store.Dataset{DType: arr.DType, Shape: arr.Shape, Data: arr.Data}

	return createDataset(ctx, w, parent, name, ds, nil)
}

func (plainArray) Read(ctx context.Context, r marshaller.Reader, node store.Node, _ marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	if ds.DType.Kind == dtype.KindObject {
		return objectsFromDataset(ctx, r, ds)
	}

	arr, err := value.New(ds.DType, ds.Shape, ds.Data)
	if err != nil {
		return nil, marshaller.NewCorruptDataError(node.Path, err)
	}

	return arr, nil
}

// plainMapping stores mappings as groups. Only the key order is recorded.
type plainMapping struct{}

func (plainMapping) Name() string   { return "plain.mapping" }
func (plainMapping) Tags() []string { return nil }

func (plainMapping) Match(v value.Value) int {
	if m, ok := v.(*value.Mapping); ok && m != nil {
		return matchExact
	}

	return 0
}

func (plainMapping) MatchNode(node store.Node, _ marshaller.Attrs) int {
	if node.IsGroup() {
		return matchGeneric
	}

	return 0
}

func plainMappingAttrs(m *value.Mapping) marshaller.Attrs {
	return marshaller.Attrs{marshaller.AttrElementOrder: store.StrsAttr(m.Keys())}
}

func (plainMapping) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	m, _ := v.(*value.Mapping)

	if err := ValidateKeys(namer.Join(parent.Path, name), m); err != nil {
		return err
	}

	group, err := createGroup(ctx, w, parent, name, plainMappingAttrs(m))
	if err != nil {
		return err
	}

	return writeMappingInto(ctx, w, group, m)
}

func (plainMapping) WriteRoot(ctx context.Context, w marshaller.Writer, root store.Node, v value.Value) error {
	m, _ := v.(*value.Mapping)
	return writeRootMapping(ctx, w, root, m, plainMappingAttrs(m))
}

func (plainMapping) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	return readMapping(ctx, r, node, attrs)
}
