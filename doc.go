// Package valuestore writes in-memory values into a hierarchical typed
// store and reads them back.
//
// A store is a tree of groups and typed datasets kept in a transactional
// key-value backend (see the driver packages). Values are laid out by one
// of the profiles of the [github.com/tarantool/go-valuestore/codec]
// package:
//
//	err := valuestore.Write(ctx, drv, value.MappingOf(
//		[]string{"x", "name"},
//		map[string]value.Value{"x": value.Float(1.5), "name": value.Text("sensor")},
//	), valuestore.WithFile("run-1"))
//
//	v, err := valuestore.Read(ctx, drv, valuestore.WithFile("run-1"), valuestore.WithPath("/x"))
package valuestore
