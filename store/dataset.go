package store

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/value"
)

// Dataset is the content of a dataset node.
//
// Data uses the layout of value.Array.Data for every kind except
// dtype.KindObject, whose elements are the paths of the referenced nodes
// as a []string. Attrs are stored with the node when it is created and
// are not filled in by ReadDataset; use Attributes to read them.
type Dataset struct {
	DType dtype.DType
	Shape []int
	Data  any
	Attrs map[string]Attr
}

// Size returns the number of elements.
func (d Dataset) Size() int {
	return value.ShapeSize(d.Shape)
}

// Refs returns the referenced paths of an object dataset.
func (d Dataset) Refs() []string {
	refs, _ := d.Data.([]string)
	return refs
}

func (d Dataset) validate() error {
	if d.DType.Kind != dtype.KindObject {
		if _, err := value.New(d.DType, d.Shape, d.Data); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		}

		return nil
	}

	refs, ok := d.Data.([]string)
	if !ok {
		return fmt.Errorf("%w: object dataset needs []string references, got %T", ErrInvalidDataset, d.Data)
	}

	if len(refs) != d.Size() {
		return fmt.Errorf("%w: %d references for shape %v", ErrInvalidDataset, len(refs), d.Shape)
	}

	for _, ref := range refs {
		if clean, err := namer.Clean(ref); err != nil || clean != ref || ref == namer.Root {
			return fmt.Errorf("%w: bad reference %q", ErrInvalidDataset, ref)
		}
	}

	return nil
}

// encodePayload lays the dataset data out as little-endian bytes.
// Object datasets have an empty payload; their references are kept
// separately.
func encodePayload(d Dataset) ([]byte, []string, error) {
	switch data := d.Data.(type) {
	case []string:
		return []byte{}, slices.Clone(data), nil
	case []byte:
		return slices.Clone(data), nil, nil
	}

	if d.Size() == 0 || (d.DType.IsString() && d.DType.Width == 0) {
		return []byte{}, nil, nil
	}

	payload, err := binary.Append([]byte{}, binary.LittleEndian, d.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	return payload, nil, nil
}

// decodePayload is the inverse of encodePayload. It enforces that the
// payload size agrees with the element type and shape.
func decodePayload(dt dtype.DType, shape []int, payload []byte, refs []string) (Dataset, error) {
	size := value.ShapeSize(shape)

	if dt.Kind == dtype.KindObject {
		if len(refs) != size || len(payload) != 0 {
			return Dataset{}, fmt.Errorf("%w: %d references for object shape %v", ErrCorrupt, len(refs), shape)
		}

		return Dataset{DType: dt, Shape: shape, Data: slices.Clone(refs)}, nil
	}

	if len(refs) != 0 {
		return Dataset{}, fmt.Errorf("%w: %s dataset has references", ErrCorrupt, dt)
	}

	if want := size * dt.ItemSize(); len(payload) != want {
		return Dataset{}, fmt.Errorf("%w: %s%v needs %d bytes, got %d", ErrCorrupt, dt, shape, want, len(payload))
	}

	data := value.MakeData(dt, size)
	if data == nil {
		return Dataset{}, fmt.Errorf("%w: unsupported dtype %s", ErrCorrupt, dt)
	}

	if raw, ok := data.([]byte); ok {
		copy(raw, payload)
	} else if len(payload) > 0 {
		if _, err := binary.Decode(payload, binary.LittleEndian, data); err != nil {
			return Dataset{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	return Dataset{DType: dt, Shape: shape, Data: data}, nil
}
