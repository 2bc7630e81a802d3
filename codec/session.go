package codec

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tarantool/go-option"
	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/internal/options"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

const (
	// RefsGroup is the root child holding the elements of object arrays.
	RefsGroup = "#refs#"
	// DefaultMaxDepth is the default nesting limit of a session.
	DefaultMaxDepth = 256
)

type sessionOptions struct {
	logger   *zap.Logger
	maxDepth int
	fallback marshaller.Marshaller
}

func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
		fallback: nil,
	}
}

// Option configures a Session.
type Option = options.OptionCallback[sessionOptions]

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *sessionOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMaxDepth limits how deeply values may nest. Deeper values, and
// cyclic ones, fail with marshaller.ErrMaxDepth.
func WithMaxDepth(n int) Option {
	return func(opts *sessionOptions) {
		if n > 0 {
			opts.maxDepth = n
		}
	}
}

// WithFallback sets a marshaller used for values and nodes no built-in
// marshaller matches.
func WithFallback(m marshaller.Marshaller) Option {
	return func(opts *sessionOptions) {
		opts.fallback = m
	}
}

// Session encodes and decodes values of one profile against one engine.
// It is not safe for concurrent use.
type Session struct {
	engine   store.Engine
	profile  Profile
	registry *marshaller.Registry
	opts     sessionOptions

	depth    int
	refs     option.Generic[store.Node]
	usedRefs map[string]struct{}
	nextRef  int
}

var (
	_ marshaller.Writer = &Session{} //nolint:exhaustruct
	_ marshaller.Reader = &Session{} //nolint:exhaustruct
)

// NewSession returns a session writing and reading engine in profile p.
func NewSession(engine store.Engine, p Profile, vOpts ...Option) (*Session, error) {
	registry, err := NewRegistry(p)
	if err != nil {
		return nil, err
	}

	opts := options.ApplyOptions[sessionOptions](defaultSessionOptions, vOpts)
	if opts.fallback != nil {
		registry.SetFallback(opts.fallback)
	}

	return &Session{
		engine:   engine,
		profile:  p,
		registry: registry,
		opts:     opts,
		depth:    0,
		refs:     option.None[store.Node](),
		usedRefs: nil,
		nextRef:  0,
	}, nil
}

// Profile returns the session profile.
func (s *Session) Profile() Profile {
	return s.profile
}

// Engine implements marshaller.Writer and marshaller.Reader.
func (s *Session) Engine() store.Engine {
	return s.engine
}

// Logger implements marshaller.Writer and marshaller.Reader.
func (s *Session) Logger() *zap.Logger {
	return s.opts.logger
}

func (s *Session) enter(path string, typeName string) error {
	if s.depth >= s.opts.maxDepth {
		return marshaller.NewUnsupportedTypeError(path, typeName, marshaller.ErrMaxDepth)
	}

	s.depth++

	return nil
}

func (s *Session) leave() {
	s.depth--
}

// WriteValue implements marshaller.Writer.
func (s *Session) WriteValue(ctx context.Context, parent store.Node, name string, v value.Value) error {
	path := namer.Join(parent.Path, name)
	typeName := value.TypeName(v)

	if err := s.enter(path, typeName); err != nil {
		return err
	}
	defer s.leave()

	m, err := s.registry.Select(v)
	if err != nil {
		return marshaller.NewUnsupportedTypeError(path, typeName, err)
	}

	s.opts.logger.Debug("writing value",
		zap.String("path", path),
		zap.String("type", typeName),
		zap.String("marshaller", m.Name()),
		zap.Stringer("profile", s.profile))

	return m.Write(ctx, s, parent, name, v)
}

// WriteRef implements marshaller.Writer. Elements are named with
// increasing integers, skipping names already present in the group.
func (s *Session) WriteRef(ctx context.Context, v value.Value) (string, error) {
	refs, err := s.refsGroup(ctx)
	if err != nil {
		return "", err
	}

	name := s.nextRefName()

	if err := s.WriteValue(ctx, refs, name, v); err != nil {
		return "", err
	}

	return namer.Join(refs.Path, name), nil
}

func (s *Session) nextRefName() string {
	for {
		name := strconv.Itoa(s.nextRef)
		s.nextRef++

		if _, used := s.usedRefs[name]; !used {
			s.usedRefs[name] = struct{}{}
			return name
		}
	}
}

func (s *Session) refsGroup(ctx context.Context) (store.Node, error) {
	if refs, ok := s.refs.Get(); ok {
		return refs, nil
	}

	root := s.engine.Root()
	path := namer.Join(root.Path, RefsGroup)

	refs, found, err := s.engine.Lookup(ctx, path)
	if err != nil {
		return store.Node{}, marshaller.FromStorage(path, err)
	}

	s.usedRefs = make(map[string]struct{})

	switch {
	case !found:
		refs, err = s.engine.CreateGroup(ctx, root, RefsGroup, nil)
		if err != nil {
			return store.Node{}, marshaller.FromStorage(path, err)
		}
	case !refs.IsGroup():
		return store.Node{}, marshaller.Corruptf(path, "reference holder is a %s", refs.Kind)
	default:
		children, err := s.engine.ListChildren(ctx, refs)
		if err != nil {
			return store.Node{}, marshaller.FromStorage(path, err)
		}

		for _, child := range children {
			s.usedRefs[child.Name()] = struct{}{}
		}
	}

	s.refs = option.Some(refs)

	return refs, nil
}

// ReadValue implements marshaller.Reader. Tagged nodes go to the
// marshaller owning the tag, all others are matched on their layout.
func (s *Session) ReadValue(ctx context.Context, node store.Node) (value.Value, error) {
	if err := s.enter(node.Path, node.Kind.String()); err != nil {
		return nil, err
	}
	defer s.leave()

	raw, err := s.engine.Attributes(ctx, node)
	if err != nil {
		return nil, marshaller.FromStorage(node.Path, err)
	}

	attrs := marshaller.Attrs(raw)

	m, err := s.selectForNode(node, attrs)
	if err != nil {
		return nil, err
	}

	s.opts.logger.Debug("reading value",
		zap.String("path", node.Path),
		zap.String("marshaller", m.Name()),
		zap.Stringer("profile", s.profile))

	return m.Read(ctx, s, node, attrs)
}

func (s *Session) selectForNode(node store.Node, attrs marshaller.Attrs) (marshaller.Marshaller, error) {
	if tag, ok := attrs.Str(marshaller.AttrTypeTag); ok {
		if m, ok := s.registry.SelectByTag(tag); ok {
			return m, nil
		}
	}

	m, err := s.registry.SelectByNode(node, attrs)
	if err != nil {
		tag, _ := attrs.Str(marshaller.AttrTypeTag)
		return nil, marshaller.NewUnsupportedTypeError(node.Path, fmt.Sprintf("%s %q", node.Kind, tag), err)
	}

	return m, nil
}

// ReadRef implements marshaller.Reader.
func (s *Session) ReadRef(ctx context.Context, path string) (value.Value, error) {
	node, found, err := s.engine.Lookup(ctx, path)

	switch {
	case err != nil:
		return nil, marshaller.FromStorage(path, err)
	case !found:
		return nil, marshaller.Corruptf(path, "dangling reference")
	default:
		return s.ReadValue(ctx, node)
	}
}
