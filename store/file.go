package store

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/tarantool/go-option"
	"go.uber.org/zap"

	"github.com/tarantool/go-valuestore/driver"
	"github.com/tarantool/go-valuestore/dtype"
	"github.com/tarantool/go-valuestore/hasher"
	"github.com/tarantool/go-valuestore/internal/options"
	"github.com/tarantool/go-valuestore/namer"
)

// File is an Engine keeping one named store in a driver.
// A File is not safe for concurrent use.
type File struct {
	drv    driver.Driver
	namer  *namer.Namer
	opts   openOptions
	closed atomic.Bool
}

var (
	_ Engine = &File{} //nolint:exhaustruct
)

// Open opens the store called name, creating an empty root group if the
// store does not exist yet.
func Open(ctx context.Context, drv driver.Driver, name string, vOpts ...Option) (*File, error) {
	opts := options.ApplyOptions[openOptions](defaultOpenOptions, vOpts)

	nmr, err := namer.New(opts.prefix, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	file := &File{drv: drv, namer: nmr, opts: opts, closed: atomic.Bool{}}

	root, err := newGroupRecord().marshal()
	if err != nil {
		return nil, err
	}

	rootKey := nmr.Key(namer.Root)

	resp, err := drv.Execute(ctx,
		[]driver.Predicate{driver.Missing(rootKey)},
		[]driver.Operation{driver.Put(rootKey, root)},
		[]driver.Operation{driver.Get(rootKey)},
	)
	if err != nil {
		return nil, errNode("open", nmr.Prefix(), err)
	}

	if resp.Succeeded {
		opts.logger.Debug("created store", zap.String("prefix", nmr.Prefix()))
		return file, nil
	}

	rec, _, found, err := file.decodeFirst(resp, 0)
	switch {
	case err != nil:
		return nil, errNode("open", nmr.Prefix(), err)
	case !found:
		return nil, errNode("open", nmr.Prefix(), ErrConflict)
	case rec.Kind != KindGroup:
		return nil, errNode("open", nmr.Prefix(), ErrNotGroup)
	}

	return file, nil
}

// Prefix returns the key of the root group.
func (f *File) Prefix() string {
	return f.namer.Prefix()
}

// Root implements Engine.
func (f *File) Root() Node {
	return Node{Path: namer.Root, Kind: KindGroup}
}

// Close implements Engine. It is safe to call Close more than once.
func (f *File) Close() error {
	if f.closed.CompareAndSwap(false, true) {
		f.opts.logger.Debug("closed store", zap.String("prefix", f.namer.Prefix()))
	}

	return nil
}

func (f *File) checkOpen() error {
	if f.closed.Load() {
		return ErrClosed
	}

	return nil
}

// decodeFirst decodes the single value of result idx of resp.
func (f *File) decodeFirst(resp driver.Response, idx int) (record, int64, bool, error) {
	if idx >= len(resp.Results) || len(resp.Results[idx].Values) == 0 {
		return record{}, 0, false, nil //nolint:exhaustruct
	}

	kv := resp.Results[idx].Values[0]

	rec, err := unmarshalRecord(kv.Value)
	if err != nil {
		return record{}, 0, false, err //nolint:exhaustruct
	}

	return rec, kv.ModRevision, true, nil
}

// load reads the record at a clean path.
func (f *File) load(ctx context.Context, path string) (record, int64, bool, error) {
	resp, err := f.drv.Execute(ctx, nil, []driver.Operation{driver.Get(f.namer.Key(path))}, nil)
	if err != nil {
		return record{}, 0, false, err //nolint:exhaustruct
	}

	return f.decodeFirst(resp, 0)
}

func (f *File) mustLoad(ctx context.Context, node Node) (record, int64, error) {
	if err := f.checkOpen(); err != nil {
		return record{}, 0, err //nolint:exhaustruct
	}

	rec, rev, found, err := f.load(ctx, node.Path)
	switch {
	case err != nil:
		return record{}, 0, err //nolint:exhaustruct
	case !found:
		return record{}, 0, ErrNotFound //nolint:exhaustruct
	}

	return rec, rev, nil
}

// Lookup implements Engine. The path is cleaned first.
func (f *File) Lookup(ctx context.Context, path string) (Node, bool, error) {
	if err := f.checkOpen(); err != nil {
		return Node{}, false, err
	}

	clean, err := namer.Clean(path)
	if err != nil {
		return Node{}, false, errNode("lookup", path, err)
	}

	rec, _, found, err := f.load(ctx, clean)
	if err != nil || !found {
		return Node{}, false, errNode("lookup", clean, err)
	}

	return Node{Path: clean, Kind: rec.Kind}, true, nil
}

// create stores rec as a new child of parent.
func (f *File) create(ctx context.Context, op string, parent Node, name string, rec record) (Node, error) {
	if err := f.checkOpen(); err != nil {
		return Node{}, err
	}

	if err := namer.ValidateName(name); err != nil {
		return Node{}, errNode(op, parent.Path, err)
	}

	path := namer.Join(parent.Path, name)

	if !parent.IsGroup() {
		return Node{}, errNode(op, path, ErrNotGroup)
	}

	data, err := rec.marshal()
	if err != nil {
		return Node{}, errNode(op, path, err)
	}

	key := f.namer.Key(path)
	parentKey := f.namer.Key(parent.Path)

	resp, err := f.drv.Execute(ctx,
		[]driver.Predicate{
			driver.Missing(key),
			driver.VersionNotEqual(parentKey, 0),
		},
		[]driver.Operation{driver.Put(key, data)},
		[]driver.Operation{driver.Get(key), driver.Get(parentKey)},
	)
	if err != nil {
		return Node{}, errNode(op, path, err)
	}

	if !resp.Succeeded {
		if len(resp.Results) > 0 && len(resp.Results[0].Values) > 0 {
			return Node{}, errNode(op, path, ErrExists)
		}

		return Node{}, errNode(op, parent.Path, ErrNotFound)
	}

	f.opts.logger.Debug("created node",
		zap.String("op", op),
		zap.String("path", path),
		zap.Stringer("kind", rec.Kind))

	return Node{Path: path, Kind: rec.Kind}, nil
}

// CreateGroup implements Engine. The group and its attributes are
// written in one transaction.
func (f *File) CreateGroup(ctx context.Context, parent Node, name string, attrs map[string]Attr) (Node, error) {
	rec := newGroupRecord()
	rec.Attrs = cloneAttrs(attrs)

	return f.create(ctx, "create group", parent, name, rec)
}

// CreateDataset implements Engine. The payload is checksummed and, when a
// signer is configured, signed.
func (f *File) CreateDataset(ctx context.Context, parent Node, name string, ds Dataset) (Node, error) {
	const op = "create dataset"

	if err := ds.validate(); err != nil {
		return Node{}, errNode(op, namer.Join(parent.Path, name), err)
	}

	payload, refs, err := encodePayload(ds)
	if err != nil {
		return Node{}, errNode(op, namer.Join(parent.Path, name), err)
	}

	rec := record{ //nolint:exhaustruct
		Kind:  KindDataset,
		DType: ds.DType.String(),
		Shape: ds.Shape,
		Data:  payload,
		Refs:  refs,
		Attrs: cloneAttrs(ds.Attrs),
	}

	digest, err := f.opts.hasher.Hash(rec.digestInput())
	if err != nil {
		return Node{}, errNode(op, namer.Join(parent.Path, name), err)
	}

	rec.Hash = digest
	rec.HashAlg = f.opts.hasher.Name()

	if f.opts.signer != nil {
		sig, err := f.opts.signer.Sign(rec.digestInput())
		if err != nil {
			return Node{}, errNode(op, namer.Join(parent.Path, name), err)
		}

		rec.Sig = sig
		rec.SigAlg = f.opts.signer.Name()
	}

	return f.create(ctx, op, parent, name, rec)
}

func (f *File) verify(rec record) error {
	if rec.HashAlg == "" {
		return fmt.Errorf("%w: no checksum", ErrChecksum)
	}

	h := f.opts.hasher
	if h.Name() != rec.HashAlg {
		var err error

		h, err = hasher.New(rec.HashAlg)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrChecksum, err)
		}
	}

	digest, err := h.Hash(rec.digestInput())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChecksum, err)
	}

	if !bytes.Equal(digest, rec.Hash) {
		return ErrChecksum
	}

	if f.opts.verifier == nil {
		return nil
	}

	if rec.SigAlg != f.opts.verifier.Name() || len(rec.Sig) == 0 {
		return fmt.Errorf("%w: no %s signature", ErrSignature, f.opts.verifier.Name())
	}

	if err := f.opts.verifier.Verify(rec.digestInput(), rec.Sig); err != nil {
		return fmt.Errorf("%w: %w", ErrSignature, err)
	}

	return nil
}

// ReadDataset implements Engine.
func (f *File) ReadDataset(ctx context.Context, node Node) (Dataset, error) {
	const op = "read dataset"

	rec, _, err := f.mustLoad(ctx, node)
	if err != nil {
		return Dataset{}, errNode(op, node.Path, err)
	}

	if rec.Kind != KindDataset {
		return Dataset{}, errNode(op, node.Path, ErrNotDataset)
	}

	if err := f.verify(rec); err != nil {
		f.opts.logger.Warn("dataset failed verification",
			zap.String("path", node.Path),
			zap.Error(err))

		return Dataset{}, errNode(op, node.Path, err)
	}

	dt, err := dtype.Parse(rec.DType)
	if err != nil {
		return Dataset{}, errNode(op, node.Path, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}

	shape := rec.Shape
	if shape == nil {
		shape = []int{}
	}

	for _, d := range shape {
		if d < 0 {
			return Dataset{}, errNode(op, node.Path, fmt.Errorf("%w: negative dimension in %v", ErrCorrupt, shape))
		}
	}

	ds, err := decodePayload(dt, shape, rec.Data, rec.Refs)

	return ds, errNode(op, node.Path, err)
}

// ListChildren implements Engine.
func (f *File) ListChildren(ctx context.Context, group Node) ([]Node, error) {
	const op = "list children"

	if err := f.checkOpen(); err != nil {
		return nil, err
	}

	resp, err := f.drv.Execute(ctx, nil, []driver.Operation{
		driver.Get(f.namer.Key(group.Path)),
		driver.GetPrefix(f.namer.ChildPrefix(group.Path)),
	}, nil)
	if err != nil {
		return nil, errNode(op, group.Path, err)
	}

	rec, _, found, err := f.decodeFirst(resp, 0)
	switch {
	case err != nil:
		return nil, errNode(op, group.Path, err)
	case !found:
		return nil, errNode(op, group.Path, ErrNotFound)
	case rec.Kind != KindGroup:
		return nil, errNode(op, group.Path, ErrNotGroup)
	case len(resp.Results) < 2: //nolint:mnd
		return nil, errNode(op, group.Path, fmt.Errorf("%w: missing prefix read result", ErrCorrupt))
	}

	var children []Node

	for _, kv := range resp.Results[1].Values {
		name, ok := f.namer.ChildName(group.Path, kv.Key)
		if !ok {
			continue
		}

		child, err := unmarshalRecord(kv.Value)
		if err != nil {
			return nil, errNode(op, namer.Join(group.Path, name), err)
		}

		children = append(children, Node{Path: namer.Join(group.Path, name), Kind: child.Kind})
	}

	return children, nil
}

// GetAttribute implements Engine.
func (f *File) GetAttribute(ctx context.Context, node Node, key string) (option.Generic[Attr], error) {
	rec, _, err := f.mustLoad(ctx, node)
	if err != nil {
		return option.None[Attr](), errNode("get attribute", node.Path, err)
	}

	if attr, ok := rec.Attrs[key]; ok {
		return option.Some(attr), nil
	}

	return option.None[Attr](), nil
}

// Attributes implements Engine.
func (f *File) Attributes(ctx context.Context, node Node) (map[string]Attr, error) {
	rec, _, err := f.mustLoad(ctx, node)
	if err != nil {
		return nil, errNode("get attributes", node.Path, err)
	}

	out := make(map[string]Attr, len(rec.Attrs))
	maps.Copy(out, rec.Attrs)

	return out, nil
}

func cloneAttrs(attrs map[string]Attr) map[string]Attr {
	if len(attrs) == 0 {
		return nil
	}

	return maps.Clone(attrs)
}

// SetAttribute implements Engine.
func (f *File) SetAttribute(ctx context.Context, node Node, key string, val Attr) error {
	return f.SetAttributes(ctx, node, map[string]Attr{key: val})
}

// SetAttributes implements Engine. The record is updated with
// compare-and-swap on its modification revision and retried when a
// concurrent writer wins.
func (f *File) SetAttributes(ctx context.Context, node Node, attrs map[string]Attr) error {
	const op = "set attributes"

	key := f.namer.Key(node.Path)

	for range f.opts.maxRetries {
		rec, rev, err := f.mustLoad(ctx, node)
		if err != nil {
			return errNode(op, node.Path, err)
		}

		if rec.Attrs == nil {
			rec.Attrs = make(map[string]Attr, len(attrs))
		}

		maps.Copy(rec.Attrs, attrs)

		data, err := rec.marshal()
		if err != nil {
			return errNode(op, node.Path, err)
		}

		resp, err := f.drv.Execute(ctx,
			[]driver.Predicate{driver.VersionEqual(key, rev)},
			[]driver.Operation{driver.Put(key, data)},
			nil,
		)
		if err != nil {
			return errNode(op, node.Path, err)
		}

		if resp.Succeeded {
			return nil
		}

		f.opts.logger.Debug("attribute update lost a race, retrying", zap.String("path", node.Path))
	}

	return errNode(op, node.Path, ErrConflict)
}

// Delete implements Engine.
func (f *File) Delete(ctx context.Context, node Node) error {
	const op = "delete"

	if err := f.checkOpen(); err != nil {
		return err
	}

	key := f.namer.Key(node.Path)
	ops := []driver.Operation{driver.DeletePrefix(f.namer.ChildPrefix(node.Path))}

	if node.Path == namer.Root {
		root, err := newGroupRecord().marshal()
		if err != nil {
			return errNode(op, node.Path, err)
		}

		ops = append(ops, driver.Put(key, root))
	} else {
		ops = append(ops, driver.Delete(key))
	}

	resp, err := f.drv.Execute(ctx, []driver.Predicate{driver.VersionNotEqual(key, 0)}, ops, nil)
	if err != nil {
		return errNode(op, node.Path, err)
	}

	if !resp.Succeeded {
		return errNode(op, node.Path, ErrNotFound)
	}

	f.opts.logger.Debug("deleted node", zap.String("path", node.Path))

	return nil
}
