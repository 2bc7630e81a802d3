// Package hasher computes checksums of dataset payloads so that a
// store can detect records damaged outside of it.
package hasher

import (
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
)

var (
	// ErrDataIsNil is returned if the passed data is nil.
	ErrDataIsNil = errors.New("data is nil")
	// ErrUnknownHasher is returned by New for an unregistered algorithm name.
	ErrUnknownHasher = errors.New("unknown hash algorithm")
)

const (
	// SHA256 is the name of the sha256 hasher.
	SHA256 = "sha256"
	// SHA1 is the name of the sha1 hasher.
	SHA1 = "sha1"
)

// Hasher is the interface that payload hashers must implement.
// Implementations must be safe for concurrent use.
type Hasher interface {
	Name() string
	Hash(data []byte) ([]byte, error)
}

// New returns the hasher registered under name.
func New(name string) (Hasher, error) {
	switch name {
	case SHA256:
		return NewSHA256Hasher(), nil
	case SHA1:
		return NewSHA1Hasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}

type stdHasher struct {
	name    string
	newHash func() hash.Hash
}

// NewSHA256Hasher creates a new sha256 hasher.
func NewSHA256Hasher() Hasher {
	return stdHasher{name: SHA256, newHash: sha256.New}
}

// NewSHA1Hasher creates a new sha1 hasher.
func NewSHA1Hasher() Hasher {
	return stdHasher{name: SHA1, newHash: sha1.New}
}

// Name implements Hasher interface.
func (h stdHasher) Name() string {
	return h.name
}

// Hash implements Hasher interface. Every call uses a fresh hash state.
func (h stdHasher) Hash(data []byte) ([]byte, error) {
	if data == nil {
		return nil, ErrDataIsNil
	}

	state := h.newHash()

	n, err := state.Write(data)
	if n < len(data) || err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	return state.Sum(nil), nil
}
