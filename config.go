package valuestore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/hasher"
	"github.com/tarantool/go-valuestore/store"
)

// ErrInvalidOptions is returned when an options document cannot be applied.
var ErrInvalidOptions = errors.New("invalid options")

// fileOptions is the YAML form of the call options.
type fileOptions struct {
	Profile      string `yaml:"profile"`
	File         string `yaml:"file"`
	Path         string `yaml:"path"`
	Prefix       string `yaml:"prefix"`
	Hasher       string `yaml:"hasher"`
	DeleteUnused bool   `yaml:"delete_unused"`
	SelfCheck    bool   `yaml:"self_check"`
	MaxDepth     int    `yaml:"max_depth"`
	MaxRetries   int    `yaml:"max_retries"`
}

// LoadOptionsFile reads call options from a YAML file.
func LoadOptionsFile(path string) ([]Option, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	return ParseOptions(data)
}

// ParseOptions decodes call options from a YAML document such as
//
//	profile: compat
//	file: run-1
//	path: /results
//	hasher: sha1
//	self_check: true
//
// Unknown fields are rejected. An empty document yields no options.
func ParseOptions(data []byte) ([]Option, error) {
	var doc fileOptions

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return doc.options()
}

func (d fileOptions) options() ([]Option, error) {
	var opts []Option

	if d.Profile != "" {
		p, err := codec.ParseProfile(d.Profile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}

		opts = append(opts, WithProfile(p))
	}

	if d.File != "" {
		opts = append(opts, WithFile(d.File))
	}

	if d.Path != "" {
		opts = append(opts, WithPath(d.Path))
	}

	if d.Prefix != "" {
		opts = append(opts, WithStoreOptions(store.WithPrefix(d.Prefix)))
	}

	if d.Hasher != "" {
		h, err := hasher.New(d.Hasher)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}

		opts = append(opts, WithHasher(h))
	}

	if d.DeleteUnused {
		opts = append(opts, WithDeleteUnused())
	}

	if d.SelfCheck {
		opts = append(opts, WithSelfCheck())
	}

	if d.MaxDepth < 0 || d.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: limits must not be negative", ErrInvalidOptions)
	}

	if d.MaxDepth > 0 {
		opts = append(opts, WithMaxDepth(d.MaxDepth))
	}

	if d.MaxRetries > 0 {
		opts = append(opts, WithStoreOptions(store.WithMaxRetries(d.MaxRetries)))
	}

	return opts, nil
}
