package codec

import (
	"context"
	"slices"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/textenc"
	"github.com/tarantool/go-valuestore/value"
)

// Class names of the external tool.
const (
	ClassDouble  = "double"
	ClassSingle  = "single"
	ClassLogical = "logical"
	ClassChar    = "char"
	ClassCell    = "cell"
	ClassStruct  = "struct"
)

// charCellWidth is the byte width of one stored character cell.
const charCellWidth = 4

func compatClass(dt dtype.DType) string {
	switch dt.Kind { //nolint:exhaustive
	case dtype.KindBool:
		return ClassLogical
	case dtype.KindFloat64, dtype.KindComplex128:
		return ClassDouble
	case dtype.KindFloat32, dtype.KindComplex64:
		return ClassSingle
	case dtype.KindStr, dtype.KindBytes:
		return ClassChar
	case dtype.KindObject:
		return ClassCell
	default:
		return dt.Kind.String()
	}
}

func isNumericClass(class string) bool {
	switch class {
	case ClassDouble, ClassSingle, ClassLogical,
		"int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return true
	default:
		return false
	}
}

func compatAttrs(class string, empty bool) marshaller.Attrs {
	attrs := marshaller.Attrs{marshaller.AttrCompatClass: store.StrAttr(class)}
	if empty {
		attrs[marshaller.AttrCompatEmpty] = store.BoolAttr(true)
	}

	return attrs
}

func compatForm(path string, v value.Value) (*value.Array, error) {
	form, err := compatShallow(path, v)
	if err != nil {
		return nil, err
	}

	arr, ok := form.(*value.Array)
	if !ok {
		return nil, unexpected(path, v)
	}

	return arr, nil
}

// compatNumeric stores Absent, scalars and numeric arrays as at least two
// dimensional datasets. Booleans are stored as uint8 of class logical.
type compatNumeric struct{}

func (compatNumeric) Name() string   { return "compat.numeric" }
func (compatNumeric) Tags() []string { return nil }

func (compatNumeric) Match(v value.Value) int {
	switch val := v.(type) {
	case value.Absent, value.Bool, value.Int, value.Float, value.Complex:
		return matchExact
	case *value.Array:
		if val != nil && val.DType.IsNumeric() {
			return matchArray
		}
	}

	return 0
}

func (compatNumeric) MatchNode(node store.Node, attrs marshaller.Attrs) int {
	if node.IsGroup() {
		return 0
	}

	class, ok := attrs.Str(marshaller.AttrCompatClass)

	switch {
	case ok && isNumericClass(class):
		return matchExact
	case !ok:
		return matchGeneric
	default:
		return 0
	}
}

func (compatNumeric) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	arr, err := compatForm(namer.Join(parent.Path, name), v)
	if err != nil {
		return err
	}

	attrs := compatAttrs(compatClass(arr.DType), arr.Size() == 0)
	ds := store.Dataset{DType: arr.DType, Shape: arr.Shape, Data: arr.Data}

	if flags, ok := arr.Data.([]bool); ok {
		units := make([]uint8, len(flags))
		for i, f := range flags {
			if f {
				units[i] = 1
			}
		}

		ds = store.Dataset{DType: dtype.Uint8, Shape: arr.Shape, Data: units}
	}

	return createDataset(ctx, w, parent, name, ds, attrs)
}

func (compatNumeric) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	class, hasClass := attrs.Str(marshaller.AttrCompatClass)

	switch {
	case !hasClass:
	case class == ClassLogical:
		units, ok := ds.Data.([]uint8)
		if !ok || ds.DType.Kind == dtype.KindBytes {
			return nil, marshaller.Corruptf(node.Path, "logical array stored as %s", ds.DType)
		}

		flags := make([]bool, len(units))
		for i, u := range units {
			flags[i] = u != 0
		}

		ds = store.Dataset{DType: dtype.Bool, Shape: ds.Shape, Data: flags}
	case class != compatClass(ds.DType):
		return nil, marshaller.Corruptf(node.Path, "%s array stored as %s", class, ds.DType)
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

// compatText stores text, byte strings and string arrays as character
// cells holding one little-endian codepoint each.
type compatText struct{}

func (compatText) Name() string   { return "compat.char" }
func (compatText) Tags() []string { return nil }

func (compatText) Match(v value.Value) int {
	switch val := v.(type) {
	case value.Text, value.Bytes, value.ByteArray:
		return matchExact
	case *value.Array:
		if val != nil && val.DType.IsString() {
			return matchArray
		}
	}

	return 0
}

func (compatText) MatchNode(node store.Node, attrs marshaller.Attrs) int {
	if node.IsGroup() {
		return 0
	}

	class, ok := attrs.Str(marshaller.AttrCompatClass)
	if ok && class == ClassChar {
		return matchExact
	}

	return 0
}

func (compatText) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	path := namer.Join(parent.Path, name)

	arr, err := compatForm(path, v)
	if err != nil {
		return err
	}

	attrs := compatAttrs(ClassChar, arr.Size() == 0)
	attrs[marshaller.AttrCharWidth] = store.IntAttr(charCellWidth)

	if arr.Size() == 0 {
		ds := store.Dataset{DType: dtype.Bytes(charCellWidth), Shape: slices.Clone(arr.Shape), Data: []byte{}}
		return createDataset(ctx, w, parent, name, ds, attrs)
	}

	cells, shape, err := textenc.TextToCells(arr)
	if err != nil {
		return marshaller.NewEncodingError(path, err)
	}

	ds := store.Dataset{DType: dtype.Bytes(charCellWidth), Shape: shape, Data: cells}

	return createDataset(ctx, w, parent, name, ds, attrs)
}

func (compatText) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	cells, ok := ds.Data.([]byte)
	if !ok || ds.DType.Kind != dtype.KindBytes {
		return nil, marshaller.Corruptf(node.Path, "character data stored as %s", ds.DType)
	}

	if width, ok := attrs.Int(marshaller.AttrCharWidth); ok && width != int64(ds.DType.Width) {
		return nil, marshaller.Corruptf(node.Path, "character width %d stored as %s", width, ds.DType)
	}

	if ds.Size() == 0 || ds.DType.Width == 0 {
		return emptyChars(), nil
	}

	arr, err := textenc.CellsToText(cells, ds.Shape, ds.DType.Width)
	if err != nil {
		return nil, marshaller.NewCorruptDataError(node.Path, err)
	}

	return arr, nil
}

// compatCell stores sequences and object arrays as cell arrays of
// references.
type compatCell struct{}

func (compatCell) Name() string   { return "compat.cell" }
func (compatCell) Tags() []string { return nil }

func (compatCell) Match(v value.Value) int {
	switch val := v.(type) {
	case *value.Sequence:
		if val != nil {
			return matchExact
		}
	case *value.Array:
		if val != nil && val.DType.Kind == dtype.KindObject {
			return matchArray
		}
	}

	return 0
}

func (compatCell) MatchNode(node store.Node, attrs marshaller.Attrs) int {
	if node.IsGroup() {
		return 0
	}

	if class, ok := attrs.Str(marshaller.AttrCompatClass); ok && class == ClassCell {
		return matchExact
	}

	return 0
}

func (compatCell) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	arr, err := compatForm(namer.Join(parent.Path, name), v)
	if err != nil {
		return err
	}

	return writeObjectArray(ctx, w, parent, name, arr, compatAttrs(ClassCell, arr.Size() == 0))
}

func (compatCell) Read(ctx context.Context, r marshaller.Reader, node store.Node, _ marshaller.Attrs) (value.Value, error) {
	return readObjects(ctx, r, node)
}

func readObjects(ctx context.Context, r marshaller.Reader, node store.Node) (value.Value, error) {
	ds, err := readDataset(ctx, r, node)
	if err != nil {
		return nil, err
	}

	if ds.DType.Kind != dtype.KindObject {
		return nil, marshaller.Corruptf(node.Path, "cell array stored as %s", ds.DType)
	}

	return objectsFromDataset(ctx, r, ds)
}

func objectsFromDataset(ctx context.Context, r marshaller.Reader, ds store.Dataset) (value.Value, error) {
	items, err := readRefs(ctx, r, ds.Refs())
	if err != nil {
		return nil, err
	}

	return value.Objects(items, ds.Shape...), nil
}

// compatStruct stores mappings as struct groups.
type compatStruct struct{}

func (compatStruct) Name() string   { return "compat.struct" }
func (compatStruct) Tags() []string { return nil }

func (compatStruct) Match(v value.Value) int {
	if m, ok := v.(*value.Mapping); ok && m != nil {
		return matchExact
	}

	return 0
}

func (compatStruct) MatchNode(node store.Node, attrs marshaller.Attrs) int {
	if !node.IsGroup() {
		return 0
	}

	if class, ok := attrs.Str(marshaller.AttrCompatClass); ok && class == ClassStruct {
		return matchExact
	}

	return matchGeneric
}

func (compatStruct) Write(ctx context.Context, w marshaller.Writer, parent store.Node, name string, v value.Value) error {
	m, _ := v.(*value.Mapping)

	if err := ValidateKeys(namer.Join(parent.Path, name), m); err != nil {
		return err
	}

	group, err := createGroup(ctx, w, parent, name, mappingAttrs(m, compatAttrs(ClassStruct, false)))
	if err != nil {
		return err
	}

	return writeMappingInto(ctx, w, group, m)
}

func (compatStruct) WriteRoot(ctx context.Context, w marshaller.Writer, root store.Node, v value.Value) error {
	m, _ := v.(*value.Mapping)
	return writeRootMapping(ctx, w, root, m, mappingAttrs(m, compatAttrs(ClassStruct, false)))
}

func (compatStruct) Read(ctx context.Context, r marshaller.Reader, node store.Node, attrs marshaller.Attrs) (value.Value, error) {
	return readMapping(ctx, r, node, attrs)
}
