package valuestore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/codec"
	"github.com/tarantool/go-valuestore/driver"
	"github.com/tarantool/go-valuestore/internal/options"
	"github.com/tarantool/go-valuestore/marshaller"
	"github.com/tarantool/go-valuestore/namer"
	"github.com/tarantool/go-valuestore/oracle"
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// ErrRootNotMapping is returned when a value other than a mapping is
// written to the root group.
var ErrRootNotMapping = errors.New("only a mapping can be written to the root group")

// Write stores v at the configured path. Missing intermediate groups are
// created and an existing node at the path is replaced.
func Write(ctx context.Context, drv driver.Driver, v value.Value, vOpts ...Option) error {
	opts := options.ApplyOptions[callOptions](defaultCallOptions, vOpts)
	return Writes(ctx, drv, map[string]value.Value{opts.path: v}, vOpts...)
}

// Writes stores several values, keyed by path, within one opened store.
// Paths are written in lexical order.
func Writes(ctx context.Context, drv driver.Driver, items map[string]value.Value, vOpts ...Option) error {
	opts := options.ApplyOptions[callOptions](defaultCallOptions, vOpts)

	return withSession(ctx, drv, opts, func(file *store.File, session *codec.Session) error {
		for _, path := range slices.Sorted(maps.Keys(items)) {
			if err := writeOne(ctx, file, session, opts, path, items[path]); err != nil {
				return err
			}
		}

		return nil
	})
}

// Read decodes the value at the configured path.
func Read(ctx context.Context, drv driver.Driver, vOpts ...Option) (value.Value, error) {
	opts := options.ApplyOptions[callOptions](defaultCallOptions, vOpts)

	values, err := Reads(ctx, drv, []string{opts.path}, vOpts...)
	if err != nil {
		return nil, err
	}

	return values[0], nil
}

// Reads decodes the values at several paths within one opened store.
func Reads(ctx context.Context, drv driver.Driver, paths []string, vOpts ...Option) ([]value.Value, error) {
	opts := options.ApplyOptions[callOptions](defaultCallOptions, vOpts)
	values := make([]value.Value, 0, len(paths))

	err := withSession(ctx, drv, opts, func(file *store.File, session *codec.Session) error {
		for _, path := range paths {
			v, err := readOne(ctx, file, session, path)
			if err != nil {
				return err
			}

			values = append(values, v)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// withSession opens the store, runs fn and closes the store on every path.
func withSession(
	ctx context.Context,
	drv driver.Driver,
	opts callOptions,
	fn func(file *store.File, session *codec.Session) error,
) (err error) {
	file, err := store.Open(ctx, drv, opts.file, opts.openOptions()...)
	if err != nil {
		return marshaller.NewStorageIOError(namer.Root, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, marshaller.NewStorageIOError(namer.Root, closeErr))
		}
	}()

	session, err := codec.NewSession(file, opts.profile, opts.sessionOptions()...)
	if err != nil {
		return err
	}

	return fn(file, session)
}

func writeOne(
	ctx context.Context,
	file *store.File,
	session *codec.Session,
	opts callOptions,
	rawPath string,
	v value.Value,
) error {
	path, err := namer.Clean(rawPath)
	if err != nil {
		return marshaller.NewMarshalError(rawPath, err)
	}

	opts.logger.Debug("writing",
		zap.String("file", opts.file),
		zap.String("path", path),
		zap.Stringer("profile", opts.profile))

	if path == namer.Root {
		err = writeRoot(ctx, file, session, opts, v)
	} else {
		err = writeAt(ctx, file, session, path, v)
	}

	if err != nil {
		opts.logger.Warn("write failed", zap.String("path", path), zap.Error(err))
		return marshaller.NewMarshalError(path, err)
	}

	if !opts.selfCheck {
		return nil
	}

	got, err := readOne(ctx, file, session, path)
	if err != nil {
		return marshaller.NewMarshalError(path, err)
	}

	// Other root children are not part of the written value.
	if m, ok := got.(*value.Mapping); ok && path == namer.Root {
		if want, ok := v.(*value.Mapping); ok {
			got = restrictKeys(m, want.Keys())
		}
	}

	return marshaller.NewMarshalError(path, oracle.CheckDepth(got, v, opts.profile, opts.maxDepth))
}

func restrictKeys(m *value.Mapping, keys []string) *value.Mapping {
	out := value.NewMapping()

	for _, key := range keys {
		if item, ok := m.Get(key); ok {
			out.Set(key, item)
		}
	}

	return out
}

func writeRoot(ctx context.Context, file *store.File, session *codec.Session, opts callOptions, v value.Value) error {
	m, ok := v.(*value.Mapping)
	if !ok || m == nil {
		return marshaller.NewUnsupportedTypeError(namer.Root, value.TypeName(v), ErrRootNotMapping)
	}

	// Every key is checked before replaced children are deleted.
	if err := codec.ValidateKeys(namer.Root, m); err != nil {
		return err
	}

	root := file.Root()

	children, err := file.ListChildren(ctx, root)
	if err != nil {
		return marshaller.FromStorage(root.Path, err)
	}

	for _, child := range children {
		_, replaced := m.Get(child.Name())
		if !replaced && !opts.deleteUnused {
			continue
		}

		if err := file.Delete(ctx, child); err != nil {
			return marshaller.FromStorage(child.Path, err)
		}
	}

	return session.WriteRoot(ctx, m)
}

func writeAt(ctx context.Context, file *store.File, session *codec.Session, path string, v value.Value) error {
	if namer.Components(path)[0] == codec.RefsGroup {
		return marshaller.NewUnsupportedTypeError(path, value.TypeName(v),
			fmt.Errorf("%w: %q", codec.ErrReservedKey, codec.RefsGroup))
	}

	parentPath, name := namer.Split(path)

	parent, err := ensureGroups(ctx, file, parentPath)
	if err != nil {
		return err
	}

	existing, found, err := file.Lookup(ctx, path)
	if err != nil {
		return marshaller.FromStorage(path, err)
	}

	if found {
		if err := file.Delete(ctx, existing); err != nil {
			return marshaller.FromStorage(path, err)
		}
	}

	return session.WriteValue(ctx, parent, name, v)
}

// ensureGroups returns the group at path, creating missing groups on the way.
func ensureGroups(ctx context.Context, file *store.File, path string) (store.Node, error) {
	node := file.Root()

	for _, name := range namer.Components(path) {
		childPath := namer.Join(node.Path, name)

		child, found, err := file.Lookup(ctx, childPath)

		switch {
		case err != nil:
			return store.Node{}, marshaller.FromStorage(childPath, err)
		case !found:
			child, err = file.CreateGroup(ctx, node, name, nil)
			if err != nil {
				return store.Node{}, marshaller.FromStorage(childPath, err)
			}
		case !child.IsGroup():
			return store.Node{}, marshaller.NewStorageIOError(childPath, fmt.Errorf("%w: %s", store.ErrNotGroup, childPath))
		}

		node = child
	}

	return node, nil
}

func readOne(ctx context.Context, file *store.File, session *codec.Session, rawPath string) (value.Value, error) {
	path, err := namer.Clean(rawPath)
	if err != nil {
		return nil, marshaller.NewUnmarshalError(rawPath, err)
	}

	node, found, err := file.Lookup(ctx, path)

	switch {
	case err != nil:
		return nil, marshaller.NewUnmarshalError(path, marshaller.FromStorage(path, err))
	case !found:
		return nil, marshaller.NewUnmarshalError(path, marshaller.NewStorageIOError(path, store.ErrNotFound))
	}

	v, err := session.ReadValue(ctx, node)
	if err != nil {
		return nil, marshaller.NewUnmarshalError(path, err)
	}

	return v, nil
}
