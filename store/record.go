package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// record is the stored form of a node.
type record struct {
	Kind    Kind            `msgpack:"kind"`
	DType   string          `msgpack:"dtype,omitempty"`
	Shape   []int           `msgpack:"shape,omitempty"`
	Data    []byte          `msgpack:"data,omitempty"`
	Refs    []string        `msgpack:"refs,omitempty"`
	Hash    []byte          `msgpack:"hash,omitempty"`
	HashAlg string          `msgpack:"hash_alg,omitempty"`
	Sig     []byte          `msgpack:"sig,omitempty"`
	SigAlg  string          `msgpack:"sig_alg,omitempty"`
	Attrs   map[string]Attr `msgpack:"attrs,omitempty"`
}

func newGroupRecord() record {
	return record{Kind: KindGroup} //nolint:exhaustruct
}

func (r record) marshal() ([]byte, error) {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode node record: %w", err)
	}

	return data, nil
}

func unmarshalRecord(data []byte) (record, error) {
	var rec record

	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if rec.Kind != KindGroup && rec.Kind != KindDataset {
		return record{}, fmt.Errorf("%w: unknown node kind %d", ErrCorrupt, rec.Kind)
	}

	return rec, nil
}

// digestInput is the byte string covered by the checksum and the
// signature: the payload followed by every reference and a NUL.
func (r record) digestInput() []byte {
	out := make([]byte, 0, len(r.Data))
	out = append(out, r.Data...)

	for _, ref := range r.Refs {
		out = append(out, ref...)
		out = append(out, 0)
	}

	return out
}
