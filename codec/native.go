package codec

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/textenc"
	"github.com/tarantool/go-valuestore/value"
)

// Type tags written by the native profile.
const (
	TagNone      = "none"
	TagBool      = "bool"
	TagInt       = "int"
	TagFloat     = "float"
	TagComplex   = "complex"
	TagStr       = "str"
	TagBytes     = "bytes"
	TagByteArray = "bytearray"
	TagArray     = "ndarray"
	TagDict      = "dict"
	TagList      = "list"
	TagTuple     = "tuple"
	TagSet       = "set"
	TagFrozenSet = "frozenset"
	TagDeque     = "deque"
)

// Match scores. A marshaller dedicated to one variant beats a generic one.
const (
	matchGeneric = 1
	matchArray   = 5
	matchExact   = 10
)

func tagged(tag string) marshaller.Attrs {
	return marshaller.Attrs{marshaller.AttrTypeTag: store.StrAttr(tag)}
}

// nativeNone stores Absent as an empty float64 dataset of shape (0,).
type nativeNone struct{}

func (nativeNone) Name() string   { return "native.none" }
func (nativeNone) Tags() []string { return []string{TagNone} }

func (nativeNone) Match(v value.Value) int {
	if _, ok := v.(value.Absent); ok {
		return matchExact
	}

	return 0
}

func (nativeNone) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, _ value.Value) error {
	ds := store.Dataset{DType: dtype.Float64, Shape: []int{0}, Data: []float64{}}
	attrs := tagged(TagNone)
	attrs[marshaller.AttrIsEmpty] = store.BoolAttr(true)

	return createDataset(ctx, w, parent, name, ds, attrs)
}

func (nativeNone) Read(ctx context.Context, r marshaller.Reader, node store.Node, _ marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	if ds.DType != dtype.Float64 || ds.Size() != 0 {
		return nil, marshaller.Corruptf(node.Path, "absent value stored as %s%v", ds.DType, ds.Shape)
	}

	return value.Absent{}, nil
}

// nativeScalar stores plain scalars as 0-d datasets.
type nativeScalar struct{}

func (nativeScalar) Name() string { return "native.scalar" }

func (nativeScalar) Tags() []string {
	return []string{TagBool, TagInt, TagFloat, TagComplex}
}

func (nativeScalar) Match(v value.Value) int {
	switch v.(type) {
	case value.Bool, value.Int, value.Float, value.Complex:
		return matchExact
	default:
		return 0
	}
}

func (nativeScalar) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	var (
		arr *value.Array
		tag string
	)

	switch val := v.(type) {
	case value.Bool:
		arr, tag = value.Scalar(bool(val)), TagBool
	case value.Int:
		arr, tag = value.Scalar(int64(val)), TagInt
	case value.Float:
		arr, tag = value.Scalar(float64(val)), TagFloat
	case value.Complex:
		arr, tag = value.Scalar(complex128(val)), TagComplex
	default:
		return unexpected(namer.Join(parent.Path, name), v)
	}

	ds := store.Dataset{DType: arr.DType, Shape: arr.Shape, Data: arr.Data}

	return createDataset(ctx, w, parent, name, ds, tagged(tag))
}

func (nativeScalar) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	tag, _ := attrs.Str(marshaller.AttrTypeTag)

	if len(ds.Shape) != 0 {
		return nil, marshaller.Corruptf(node.Path, "%s scalar stored with shape %v", tag, ds.Shape)
	}

	switch data := ds.Data.(type) {
	case []bool:
		if tag == TagBool {
			return value.Bool(data[0]), nil
		}
	case []int64:
		if tag == TagInt {
			return value.Int(data[0]), nil
		}
	case []float64:
		if tag == TagFloat {
			return value.Float(data[0]), nil
		}
	case []complex128:
		if tag == TagComplex {
			return value.Complex(data[0]), nil
		}
	}

	return nil, marshaller.Corruptf(node.Path, "%s scalar stored as %s", tag, ds.DType)
}

// nativeText stores text as uint32 codepoints and byte strings as uint8
// units, both one dimensional.
type nativeText struct{}

func (nativeText) Name() string { return "native.text" }

func (nativeText) Tags() []string {
	return []string{TagStr, TagBytes, TagByteArray}
}

func (nativeText) Match(v value.Value) int {
	switch v.(type) {
	case value.Text, value.Bytes, value.ByteArray:
		return matchExact
	default:
		return 0
	}
}

func (nativeText) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	var (
		ds  store.Dataset
		tag string
	)

	switch val := v.(type) {
	case value.Text:
		runes, err := textenc.DecodeUTF8([]byte(val))
		if err != nil {
			return marshaller.NewEncodingError(namer.Join(parent.Path, name), err)
		}

		codes := make([]uint32, len(runes))

		for i, r := range runes {
			codes[i] = uint32(r) //nolint:gosec
		}

		ds, tag = store.Dataset{DType: dtype.Uint32, Shape: []int{len(codes)}, Data: codes}, TagStr
	case value.Bytes:
		ds, tag = store.Dataset{DType: dtype.Uint8, Shape: []int{len(val)}, Data: slices.Clone([]byte(val))}, TagBytes
	case value.ByteArray:
		ds, tag = store.Dataset{DType: dtype.Uint8, Shape: []int{len(val)}, Data: slices.Clone([]byte(val))}, TagByteArray
	default:
		return unexpected(namer.Join(parent.Path, name), v)
	}

	attrs := tagged(tag)
	if ds.Size() == 0 {
		attrs[marshaller.AttrIsEmpty] = store.BoolAttr(true)
	}

	return createDataset(ctx, w, parent, name, ds, attrs)
}

func (nativeText) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	tag, _ := attrs.Str(marshaller.AttrTypeTag)

	if len(ds.Shape) != 1 {
		return nil, marshaller.Corruptf(node.Path, "%s stored with shape %v", tag, ds.Shape)
	}

	if attrs.Bool(marshaller.AttrIsEmpty) != (ds.Size() == 0) {
		return nil, marshaller.Corruptf(node.Path, "empty flag disagrees with %d stored elements", ds.Size())
	}

	switch data := ds.Data.(type) {
	case []uint32:
		if tag == TagStr {
			return decodeCodepoints(node.Path, data)
		}
	case []uint8:
		if ds.DType.Kind == dtype.KindUint8 && tag == TagBytes {
			return value.Bytes(data), nil
		}

		if ds.DType.Kind == dtype.KindUint8 && tag == TagByteArray {
			return value.ByteArray(data), nil
		}
	}

	return nil, marshaller.Corruptf(node.Path, "%s stored as %s", tag, ds.DType)
}

func decodeCodepoints(path string, codes []uint32) (value.Value, error) {
	runes := make([]rune, len(codes))

	for i, c := range codes {
		r := rune(c) //nolint:gosec
		if !utf8.ValidRune(r) {
			return nil, marshaller.Corruptf(path, "invalid codepoint %#x at %d", c, i)
		}

		runes[i] = r
	}

	return value.Text(string(runes)), nil
}

// nativeArray stores n-dimensional arrays. Codepoint string arrays are
// flattened into uint32 and object arrays become reference datasets.
type nativeArray struct{}

func (nativeArray) Name() string   { return "native.array" }
func (nativeArray) Tags() []string { return []string{TagArray} }

func (nativeArray) Match(v value.Value) int {
	if arr, ok := v.(*value.Array); ok && arr != nil {
		return matchArray
	}

	return 0
}

// MatchNode picks up untagged datasets.
func (nativeArray) MatchNode(node store.Node, _ marshaller.Attrs) int {
	if node.IsGroup() {
		return 0
	}

	return matchGeneric
}

func (nativeArray) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	arr, _ := v.(*value.Array)
	path := namer.Join(parent.Path, name)

	if _, err := value.New(arr.DType, arr.Shape, arr.Data); err != nil {
		return marshaller.NewUnsupportedTypeError(path, value.TypeName(v), err)
	}

	attrs := tagged(TagArray)
	attrs[marshaller.AttrUnderlyingType] = store.StrAttr(arr.DType.String())

	switch arr.DType.Kind { //nolint:exhaustive
	case dtype.KindObject:
		attrs[marshaller.AttrElementCount] = store.IntAttr(int64(arr.Size()))
		return writeObjectArray(ctx, w, parent, name, arr, attrs)
	case dtype.KindStr:
		codes, err := textenc.FixedToCodepoints(arr)
		if err != nil {
			return marshaller.NewEncodingError(path, err)
		}

		attrs[marshaller.AttrShape] = shapeAttr(arr.Shape)
		attrs[marshaller.AttrCharWidth] = store.IntAttr(int64(arr.DType.Width))

		ds := store.Dataset{DType: codes.DType, Shape: codes.Shape, Data: codes.Data}

		return createDataset(ctx, w, parent, name, ds, attrs)
	default:
		ds := store.Dataset{DType: arr.DType, Shape: arr.Shape, Data: arr.Data}
		return createDataset(ctx, w, parent, name, ds, attrs)
	}
}

func (nativeArray) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	underlying := ds.DType

	if name, ok := attrs.Str(marshaller.AttrUnderlyingType); ok {
		if underlying, err = dtype.Parse(name); err != nil {
			return nil, marshaller.NewCorruptDataError(node.Path, err)
		}
	}

	switch {
	case underlying.Kind == dtype.KindStr && ds.DType.Kind != dtype.KindStr:
		return readCodepointArray(node.Path, ds, underlying, attrs)
	case underlying != ds.DType:
		return nil, marshaller.Corruptf(node.Path, "array of %s stored as %s", underlying, ds.DType)
	case ds.DType.Kind == dtype.KindObject:
		return objectsFromDataset(ctx, r, ds)
	default:
		arr, err := value.New(ds.DType, ds.Shape, ds.Data)
		if err != nil {
			return nil, marshaller.NewCorruptDataError(node.Path, err)
		}

		return arr, nil
	}
}

func readCodepointArray(path string, ds store.Dataset, underlying dtype.DType, attrs marshaller.Attrs) (value.Value, error) {
	shape, ok := shapeFromAttr(attrs, marshaller.AttrShape)
	if !ok {
		return nil, marshaller.Corruptf(path, "%s array without a valid shape", underlying)
	}

	codes, err := value.New(ds.DType, ds.Shape, ds.Data)
	if err != nil {
		return nil, marshaller.NewCorruptDataError(path, err)
	}

	arr, err := textenc.CodepointsToFixed(codes, underlying.Width, shape)
	if err != nil {
		return nil, marshaller.NewCorruptDataError(path, err)
	}

	return arr, nil
}

// nativeMapping stores a mapping as a group with one child per key.
type nativeMapping struct{}

func (nativeMapping) Name() string   { return "native.mapping" }
func (nativeMapping) Tags() []string { return []string{TagDict} }

func (nativeMapping) Match(v value.Value) int {
	if m, ok := v.(*value.Mapping); ok && m != nil {
		return matchExact
	}

	return 0
}

// MatchNode picks up untagged groups.
func (nativeMapping) MatchNode(node store.Node, _ marshaller.Attrs) int {
	if node.IsGroup() {
		return matchGeneric
	}

	return 0
}

func mappingAttrs(m *value.Mapping, base marshaller.Attrs) marshaller.Attrs {
	attrs := marshaller.Attrs{
		marshaller.AttrContainerKind: store.StrAttr(marshaller.ContainerMapping),
		marshaller.AttrElementOrder:  store.StrsAttr(m.Keys()),
		marshaller.AttrElementCount:  store.IntAttr(int64(m.Len())),
	}

	for k, v := range base {
		attrs[k] = v
	}

	return attrs
}

func (nativeMapping) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	m, _ := v.(*value.Mapping)

	if err := ValidateKeys(namer.Join(parent.Path, name), m); err != nil {
		return err
	}

	group, err := createGroup(ctx, w, parent, name, mappingAttrs(m, tagged(TagDict)))
	if err != nil {
		return err
	}

	return writeMappingInto(ctx, w, group, m)
}

func (nativeMapping) WriteRoot(ctx context.Context, w marshaller.Writer, root store.Node, v value.Value) error {
	m, _ := v.(*value.Mapping)
	return writeRootMapping(ctx, w, root, m, mappingAttrs(m, tagged(TagDict)))
}

func (nativeMapping) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	if kind, ok := attrs.Str(marshaller.AttrContainerKind); ok && kind != marshaller.ContainerMapping {
		return nil, marshaller.Corruptf(node.Path, "mapping with container kind %q", kind)
	}

	return readMapping(ctx, r, node, attrs)
}

// nativeSequence stores lists, tuples, sets and deques as one dimensional
// reference datasets.
type nativeSequence struct{}

func (nativeSequence) Name() string { return "native.sequence" }

func (nativeSequence) Tags() []string {
	return []string{TagList, TagTuple, TagSet, TagFrozenSet, TagDeque}
}

func (nativeSequence) Match(v value.Value) int {
	if seq, ok := v.(*value.Sequence); ok && seq != nil {
		if _, ok := seqTag(seq.Kind); ok {
			return matchExact
		}
	}

	return 0
}

func seqTag(kind value.SeqKind) (string, bool) {
	switch kind {
	case value.List:
		return TagList, true
	case value.Tuple:
		return TagTuple, true
	case value.Set:
		return TagSet, true
	case value.FrozenSet:
		return TagFrozenSet, true
	case value.Deque:
		return TagDeque, true
	default:
		return "", false
	}
}

func seqKindOf(tag string) (value.SeqKind, bool) {
	for _, kind := range []value.SeqKind{value.List, value.Tuple, value.Set, value.FrozenSet, value.Deque} {
		if t, _ := seqTag(kind); t == tag {
			return kind, true
		}
	}

	return 0, false
}

func containerKind(kind value.SeqKind) string {
	switch {
	case kind.Unordered():
		return marshaller.ContainerSet
	case kind == value.Deque:
		return marshaller.ContainerQueue
	default:
		return marshaller.ContainerSequence
	}
}

func (nativeSequence) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	seq, _ := v.(*value.Sequence)
	tag, _ := seqTag(seq.Kind)

	attrs := tagged(tag)
	attrs[marshaller.AttrContainerKind] = store.StrAttr(containerKind(seq.Kind))
	attrs[marshaller.AttrElementCount] = store.IntAttr(int64(seq.Len()))

	if seq.Len() == 0 {
		attrs[marshaller.AttrIsEmpty] = store.BoolAttr(true)
	}

	return writeObjectArray(ctx, w, parent, name, value.Objects(seq.Items), attrs)
}

func (nativeSequence) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	tag, _ := attrs.Str(marshaller.AttrTypeTag)

	kind, ok := seqKindOf(tag)
	if !ok {
		return nil, marshaller.Corruptf(node.Path, "unknown sequence tag %q", tag)
	}

	if ck, ok := attrs.Str(marshaller.AttrContainerKind); ok && ck != containerKind(kind) {
		return nil, marshaller.Corruptf(node.Path, "%s with container kind %q", tag, ck)
	}

	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	if ds.DType.Kind != dtype.KindObject || len(ds.Shape) != 1 {
		return nil, marshaller.Corruptf(node.Path, "%s stored as %s%v", tag, ds.DType, ds.Shape)
	}

	if count, ok := attrs.Int(marshaller.AttrElementCount); ok && count != int64(ds.Size()) {
		return nil, marshaller.Corruptf(node.Path, "element count %d, stored %d", count, ds.Size())
	}

	items, err := readRefs(ctx, r, ds.Refs())
	if err != nil {
		return nil, err
	}

	return &value.Sequence{Kind: kind, Items: items}, nil
}

func unexpected(path string, v value.Value) error {
	return marshaller.NewUnsupportedTypeError(path, value.TypeName(v), fmt.Errorf("%w: unexpected variant", marshaller.ErrNoMarshaller))
}
