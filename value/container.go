package value

import (
	"fmt"
	"iter"
	"slices"
)

// Mapping is a string-keyed mapping that remembers insertion order.
type Mapping struct {
	keys  []string
	items map[string]Value
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{
		keys:  nil,
		items: make(map[string]Value),
	}
}

// MappingOf builds a mapping from alternating key/value pairs given as
// an ordered slice of keys and a map of values.
func MappingOf(keys []string, items map[string]Value) *Mapping {
	m := NewMapping()
	for _, k := range keys {
		m.Set(k, items[k])
	}

	return m
}

// Set inserts or replaces the value under key. New keys go last.
func (m *Mapping) Set(key string, v Value) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.items[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Delete removes key from the mapping.
func (m *Mapping) Delete(key string) {
	if _, ok := m.items[key]; !ok {
		return
	}

	delete(m.items, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.items[k]) {
				return
			}
		}
	}
}

// SeqKind distinguishes the sequence-like containers.
type SeqKind int

const (
	// List is a mutable ordered sequence.
	List SeqKind = iota + 1
	// Tuple is an immutable ordered sequence.
	Tuple
	// Set is an unordered collection of distinct items.
	Set
	// FrozenSet is an immutable Set.
	FrozenSet
	// Deque is a double-ended queue.
	Deque
)

func (k SeqKind) String() string {
	switch k {
	case List:
		return "list"
	case Tuple:
		return "tuple"
	case Set:
		return "set"
	case FrozenSet:
		return "frozenset"
	case Deque:
		return "deque"
	default:
		return fmt.Sprintf("SeqKind[%d]", int(k))
	}
}

// Unordered reports whether items of this kind have no meaningful order.
func (k SeqKind) Unordered() bool {
	return k == Set || k == FrozenSet
}

// Sequence is an ordered sequence, a set or a deque. Items of a Set or
// FrozenSet are kept in iteration order, which carries no meaning.
type Sequence struct {
	Kind  SeqKind
	Items []Value
}

// NewList creates a List of items.
func NewList(items ...Value) *Sequence {
	return &Sequence{Kind: List, Items: items}
}

// NewTuple creates a Tuple of items.
func NewTuple(items ...Value) *Sequence {
	return &Sequence{Kind: Tuple, Items: items}
}

// NewSet creates a Set of items. The caller is responsible for the items
// being distinct.
func NewSet(items ...Value) *Sequence {
	return &Sequence{Kind: Set, Items: items}
}

// NewFrozenSet creates a FrozenSet of items.
func NewFrozenSet(items ...Value) *Sequence {
	return &Sequence{Kind: FrozenSet, Items: items}
}

// NewDeque creates a Deque of items.
func NewDeque(items ...Value) *Sequence {
	return &Sequence{Kind: Deque, Items: items}
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.Items)
}
