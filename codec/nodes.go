package codec

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// ErrReservedKey is returned for mapping keys and write paths that name
// the reference group.
var ErrReservedKey = errors.New("key is reserved")

var (
	errNotDataset = errors.New("node is not a dataset")
	errNotGroup   = errors.New("node is not a group")
)

// rootWriter is implemented by marshallers that can fill the root group,
// which already exists and cannot be created again.
type rootWriter interface {
	WriteRoot(ctx context.Context, w marshaller.Writer, root store.Node, v value.Value) error
}

// WriteRoot stores the keys of m as children of the root group.
func (s *Session) WriteRoot(ctx context.Context, m *value.Mapping) error {
	root := s.engine.Root()

	if err := s.enter(root.Path, value.TypeName(m)); err != nil {
		return err
	}
	defer s.leave()

	selected, err := s.registry.Select(m)
	if err != nil {
		return marshaller.NewUnsupportedTypeError(root.Path, value.TypeName(m), err)
	}

	rw, ok := selected.(rootWriter)
	if !ok {
		return marshaller.NewUnsupportedTypeError(root.Path, value.TypeName(m),
			fmt.Errorf("%w: %s cannot write the root group", marshaller.ErrNoMarshaller, selected.Name()))
	}

	return rw.WriteRoot(ctx, s, root, m)
}

func validateKey(parentPath string, key string) error {
	path := namer.Join(parentPath, key)

	if err := namer.ValidateName(key); err != nil {
		return marshaller.NewUnsupportedTypeError(path, "mapping key", err)
	}

	if key == RefsGroup {
		return marshaller.NewUnsupportedTypeError(path, "mapping key", fmt.Errorf("%w: %q", ErrReservedKey, key))
	}

	return nil
}

func createDataset(
	ctx context.Context,
	w marshaller.Writer,
	parent store.Node,
	name string,
	ds store.Dataset,
	attrs marshaller.Attrs,
) error {
	ds.Attrs = attrs

	_, err := w.Engine().CreateDataset(ctx, parent, name, ds)

	return marshaller.FromStorage(namer.Join(parent.Path, name), err)
}

func createGroup(
	ctx context.Context,
	w marshaller.Writer,
	parent store.Node,
	name string,
	attrs marshaller.Attrs,
) (store.Node, error) {
	node, err := w.Engine().CreateGroup(ctx, parent, name, attrs)
	if err != nil {
		return store.Node{}, marshaller.FromStorage(namer.Join(parent.Path, name), err)
	}

	return node, nil
}

func readDataset(ctx context.Context, r marshaller.Reader, node store.Node) (store.Dataset, error) {
	if node.IsGroup() {
		return store.Dataset{}, marshaller.NewCorruptDataError(node.Path, errNotDataset)
	}

	ds, err := r.Engine().ReadDataset(ctx, node)
	if err != nil {
		return store.Dataset{}, marshaller.FromStorage(node.Path, err)
	}

	return ds, nil
}

// writeRefs stores every item in the reference group and returns the
// paths in the same order.
func writeRefs(ctx context.Context, w marshaller.Writer, items []value.Value) ([]string, error) {
	refs := make([]string, len(items))

	for i, item := range items {
		ref, err := w.WriteRef(ctx, item)
		if err != nil {
			return nil, err
		}

		refs[i] = ref
	}

	return refs, nil
}

func readRefs(ctx context.Context, r marshaller.Reader, refs []string) ([]value.Value, error) {
	items := make([]value.Value, len(refs))

	for i, ref := range refs {
		item, err := r.ReadRef(ctx, ref)
		if err != nil {
			return nil, err
		}

		items[i] = item
	}

	return items, nil
}

// writeObjectArray stores an object array as a dataset of references.
func writeObjectArray(
	ctx context.Context,
	w marshaller.Writer,
	parent store.Node,
	name string,
	arr *value.Array,
	attrs marshaller.Attrs,
) error {
	refs, err := writeRefs(ctx, w, arr.Items())
	if err != nil {
		return err
	}

	ds := store.Dataset{DType: arr.DType, Shape: arr.Shape, Data: refs}

	return createDataset(ctx, w, parent, name, ds, attrs)
}

// writeMappingInto writes the items of m as children of group.
func writeMappingInto(ctx context.Context, w marshaller.Writer, group store.Node, m *value.Mapping) error {
	for key, item := range m.All() {
		if err := w.WriteValue(ctx, group, key, item); err != nil {
			return err
		}
	}

	return nil
}

// ValidateKeys checks that every key of m can name a child of the group
// at path. It fails with an UnsupportedTypeError on the first key that
// is not a valid node name or is RefsGroup.
func ValidateKeys(path string, m *value.Mapping) error {
	for _, key := range m.Keys() {
		if err := validateKey(path, key); err != nil {
			return err
		}
	}

	return nil
}

// writeRootMapping fills the existing root group with the items of m.
func writeRootMapping(ctx context.Context, w marshaller.Writer, root store.Node, m *value.Mapping, attrs marshaller.Attrs) error {
	if err := ValidateKeys(root.Path, m); err != nil {
		return err
	}

	if len(attrs) > 0 {
		if err := w.Engine().SetAttributes(ctx, root, attrs); err != nil {
			return marshaller.FromStorage(root.Path, err)
		}
	}

	return writeMappingInto(ctx, w, root, m)
}

// readMapping rebuilds a mapping from the children of a group. The
// element order attribute, when present, must name exactly the children.
func readMapping(
	ctx context.Context,
	r marshaller.Reader,
	node store.Node,
	attrs marshaller.Attrs,
) (*value.Mapping, error) {
	if !node.IsGroup() {
		return nil, marshaller.NewCorruptDataError(node.Path, errNotGroup)
	}

	children, err := r.Engine().ListChildren(ctx, node)
	if err != nil {
		return nil, marshaller.FromStorage(node.Path, err)
	}

	byName := make(map[string]store.Node, len(children))
	names := make([]string, 0, len(children))

	for _, child := range children {
		if node.Path == namer.Root && child.Name() == RefsGroup {
			continue
		}

		byName[child.Name()] = child
		names = append(names, child.Name())
	}

	order, hasOrder := attrs.Strs(marshaller.AttrElementOrder)

	switch {
	case node.Path == namer.Root:
		// Writes at other paths add root children without touching the
		// recorded order, so at the root it only sorts what is there.
		if hasOrder {
			names = orderedFirst(order, names)
		}
	case hasOrder && !sameKeys(order, names):
		return nil, marshaller.Corruptf(node.Path, "element order %q does not match children %q", order, names)
	case hasOrder:
		names = order
	}

	count, ok := attrs.Int(marshaller.AttrElementCount)
	if ok && node.Path != namer.Root && count != int64(len(names)) {
		return nil, marshaller.Corruptf(node.Path, "element count %d, found %d children", count, len(names))
	}

	m := value.NewMapping()

	for _, name := range names {
		item, err := r.ReadValue(ctx, byName[name])
		if err != nil {
			return nil, err
		}

		m.Set(name, item)
	}

	return m, nil
}

// orderedFirst returns the names listed in order that are present,
// followed by the remaining names.
func orderedFirst(order, names []string) []string {
	out := make([]string, 0, len(names))

	for _, name := range order {
		if slices.Contains(names, name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	for _, name := range names {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	return out
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)

	return slices.Equal(a, b)
}

func shapeAttr(shape []int) store.Attr {
	ints := make([]int64, len(shape))
	for i, d := range shape {
		ints[i] = int64(d)
	}

	return store.IntsAttr(ints)
}

func shapeFromAttr(attrs marshaller.Attrs, key string) ([]int, bool) {
	ints, ok := attrs.Ints(key)
	if !ok {
		return nil, false
	}

	shape := make([]int, len(ints))
	for i, d := range ints {
		if d < 0 {
			return nil, false
		}

		shape[i] = int(d)
	}

	return shape, true
}
