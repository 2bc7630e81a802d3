// Package namer maps node paths of a store onto driver keys.
//
// A store named "data" with prefix "/valuestore/" keeps its root under
// the key "/valuestore/data" and a node "/a/b" under "/valuestore/data/a/b".
// Every descendant of a node shares the prefix "<node key>/", so a single
// prefix read lists a whole subtree.
package namer

import (
	"strings"
)

// Namer represents keys naming strategy for one store.
type Namer struct {
	prefix string
}

// New returns a Namer for the store called file under the key prefix
// base. The base is cleaned the same way as a path and file must be a
// valid name.
func New(base, file string) (*Namer, error) {
	cleaned, err := Clean(base)
	if err != nil {
		return nil, err
	}

	if err := ValidateName(file); err != nil {
		return nil, err
	}

	return &Namer{prefix: Join(cleaned, file)}, nil
}

// Prefix returns the key of the root group.
func (n *Namer) Prefix() string {
	return n.prefix
}

// Key returns the driver key of the node at a clean path.
func (n *Namer) Key(path string) []byte {
	if path == Root {
		return []byte(n.prefix)
	}

	return []byte(n.prefix + path)
}

// ChildPrefix returns the key prefix shared by all descendants of the
// node at a clean path.
func (n *Namer) ChildPrefix(path string) []byte {
	if path == Root {
		return []byte(n.prefix + Separator)
	}

	return []byte(n.prefix + path + Separator)
}

// PathOf is the inverse of Key.
func (n *Namer) PathOf(key []byte) (string, error) {
	rest, ok := strings.CutPrefix(string(key), n.prefix)
	if !ok {
		return "", errInvalidKey(string(key), "key is outside of prefix "+n.prefix)
	}

	if rest == "" {
		return Root, nil
	}

	if !strings.HasPrefix(rest, Separator) {
		return "", errInvalidKey(string(key), "key is outside of prefix "+n.prefix)
	}

	path, err := Clean(rest)
	if err != nil {
		return "", errInvalidKey(string(key), err.Error())
	}

	if path != rest {
		return "", errInvalidKey(string(key), "path is not clean")
	}

	return path, nil
}

// ChildName reports the name of the direct child of parent that key
// addresses. Keys of deeper descendants and foreign keys return false.
func (n *Namer) ChildName(parent string, key []byte) (string, bool) {
	rest, ok := strings.CutPrefix(string(key), string(n.ChildPrefix(parent)))
	if !ok || rest == "" || strings.Contains(rest, Separator) {
		return "", false
	}

	return rest, true
}
