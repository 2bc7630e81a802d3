package driver

// OpType is the kind of an Operation.
type OpType int

const (
	// OpGet reads a key or every key under a prefix.
	OpGet OpType = iota
	// OpPut writes a key.
	OpPut
	// OpDelete removes a key or every key under a prefix.
	OpDelete
)

func (t OpType) String() string {
	switch t {
	case OpGet:
		return "Get"
	case OpPut:
		return "Put"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Operation is a single step of a transaction.
type Operation struct {
	typ    OpType
	key    []byte
	value  []byte
	prefix bool
}

// Get reads a single key.
func Get(key []byte) Operation {
	return Operation{typ: OpGet, key: key, value: nil, prefix: false}
}

// GetPrefix reads every key starting with prefix, ordered by key.
// The prefix must end with '/'.
func GetPrefix(prefix []byte) Operation {
	return Operation{typ: OpGet, key: prefix, value: nil, prefix: true}
}

// Put writes value under key.
func Put(key []byte, value []byte) Operation {
	return Operation{typ: OpPut, key: key, value: value, prefix: false}
}

// Delete removes a single key.
func Delete(key []byte) Operation {
	return Operation{typ: OpDelete, key: key, value: nil, prefix: false}
}

// DeletePrefix removes every key starting with prefix.
// The prefix must end with '/'.
func DeletePrefix(prefix []byte) Operation {
	return Operation{typ: OpDelete, key: prefix, value: nil, prefix: true}
}

// Type returns the operation type.
func (o Operation) Type() OpType {
	return o.typ
}

// Key returns the target key or prefix.
func (o Operation) Key() []byte {
	return o.key
}

// Value returns the payload of a Put, nil otherwise.
func (o Operation) Value() []byte {
	return o.value
}

// IsPrefix reports whether Key is a prefix rather than a single key.
func (o Operation) IsPrefix() bool {
	return o.prefix
}
