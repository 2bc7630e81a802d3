package valuestore

import (
	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/hasher"
	"github.com/tarantool/go-valuestore/internal/options"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
)

// DefaultFile is the store name used when WithFile is not given.
const DefaultFile = "data"

type callOptions struct {
	file         string
	path         string
	profile      codec.Profile
	logger       *zap.Logger
	deleteUnused bool
	selfCheck    bool
	maxDepth     int
	fallback     marshaller.Marshaller
	storeOpts    []store.Option
}

func defaultCallOptions() callOptions {
	return callOptions{
		file:         DefaultFile,
		path:         namer.Root,
		profile:      codec.Native,
		logger:       zap.NewNop(),
		deleteUnused: false,
		selfCheck:    false,
		maxDepth:     codec.DefaultMaxDepth,
		fallback:     nil,
		storeOpts:    nil,
	}
}

// Option configures Write, Read and their multi-path variants.
type Option = options.OptionCallback[callOptions]

// WithFile selects the store to work on.
func WithFile(name string) Option {
	return func(opts *callOptions) {
		opts.file = name
	}
}

// WithPath sets the node path a value is written to or read from.
// The default is the root group.
func WithPath(path string) Option {
	return func(opts *callOptions) {
		opts.path = path
	}
}

// WithProfile selects the storage layout.
func WithProfile(p codec.Profile) Option {
	return func(opts *callOptions) {
		opts.profile = p
	}
}

// WithLogger sets the logger of the call and of the store it opens.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *callOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithDeleteUnused makes a write of a root mapping remove every root
// child that is not one of its keys, including stale element references.
func WithDeleteUnused() Option {
	return func(opts *callOptions) {
		opts.deleteUnused = true
	}
}

// WithSelfCheck makes Write read the value back and compare it with the
// original using the equality rules of the profile.
func WithSelfCheck() Option {
	return func(opts *callOptions) {
		opts.selfCheck = true
	}
}

// WithMaxDepth limits the nesting depth of written and read values.
func WithMaxDepth(n int) Option {
	return func(opts *callOptions) {
		opts.maxDepth = n
	}
}

// WithFallback sets a marshaller for values no built-in marshaller handles.
func WithFallback(m marshaller.Marshaller) Option {
	return func(opts *callOptions) {
		opts.fallback = m
	}
}

// WithHasher sets the checksum algorithm of new datasets.
func WithHasher(h hasher.Hasher) Option {
	return WithStoreOptions(store.WithHasher(h))
}

// WithStoreOptions passes options to store.Open.
func WithStoreOptions(storeOpts ...store.Option) Option {
	return func(opts *callOptions) {
		opts.storeOpts = append(opts.storeOpts, storeOpts...)
	}
}

func (o callOptions) sessionOptions() []codec.Option {
	return []codec.Option{
		codec.WithLogger(o.logger),
		codec.WithMaxDepth(o.maxDepth),
		codec.WithFallback(o.fallback),
	}
}

func (o callOptions) openOptions() []store.Option {
	return append([]store.Option{store.WithLogger(o.logger)}, o.storeOpts...)
}
