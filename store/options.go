package store

import (
	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/crypto"
	"github.com/tarantool/go-valuestore/hasher"
	"github.com/tarantool/go-valuestore/internal/options"
)

const (
	// DefaultPrefix is the key prefix stores live under by default.
	DefaultPrefix = "/valuestore/"

	defaultMaxRetries = 16
)

type openOptions struct {
	prefix     string
	hasher     hasher.Hasher
	signer     crypto.Signer
	verifier   crypto.Verifier
	logger     *zap.Logger
	maxRetries int
}

func defaultOpenOptions() openOptions {
	return openOptions{
		prefix:     DefaultPrefix,
		hasher:     hasher.NewSHA256Hasher(),
		signer:     nil,
		verifier:   nil,
		logger:     zap.NewNop(),
		maxRetries: defaultMaxRetries,
	}
}

// Option configures Open.
type Option = options.OptionCallback[openOptions]

// WithPrefix sets the key prefix the store lives under.
func WithPrefix(prefix string) Option {
	return func(opts *openOptions) {
		opts.prefix = prefix
	}
}

// WithHasher sets the payload checksum algorithm used for new datasets.
// Existing datasets are verified with the algorithm they were written with.
func WithHasher(h hasher.Hasher) Option {
	return func(opts *openOptions) {
		if h != nil {
			opts.hasher = h
		}
	}
}

// WithSigner signs every new dataset payload.
func WithSigner(signer crypto.Signer) Option {
	return func(opts *openOptions) {
		opts.signer = signer
	}
}

// WithVerifier requires every dataset payload to carry a valid signature.
func WithVerifier(verifier crypto.Verifier) Option {
	return func(opts *openOptions) {
		opts.verifier = verifier
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *openOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMaxRetries bounds compare-and-swap retries of attribute updates.
func WithMaxRetries(n int) Option {
	return func(opts *openOptions) {
		if n > 0 {
			opts.maxRetries = n
		}
	}
}
