package namer

import (
	"strings"
)

const (
	// Root is the path of the root group.
	Root = "/"
	// Separator separates path components.
	Separator = "/"
)

// ValidateName checks that name can be used as a single path component.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errInvalidName(name, "name is empty")
	case name == "." || name == "..":
		return errInvalidName(name, "name is reserved")
	case strings.Contains(name, Separator):
		return errInvalidName(name, "name contains '/'")
	case strings.ContainsRune(name, 0):
		return errInvalidName(name, "name contains NUL")
	}

	return nil
}

// Clean normalizes path to the absolute form "/a/b". Empty components
// (repeated or trailing slashes) are dropped; every other component must
// pass ValidateName.
func Clean(path string) (string, error) {
	parts := Components(path)

	for _, part := range parts {
		if err := ValidateName(part); err != nil {
			return "", err
		}
	}

	return Root + strings.Join(parts, Separator), nil
}

// Components splits path into its non-empty components.
// The root path has none.
func Components(path string) []string {
	var parts []string

	for _, part := range strings.Split(path, Separator) {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}

// Join appends name to a clean parent path.
func Join(parent, name string) string {
	if parent == Root {
		return Root + name
	}

	return parent + Separator + name
}

// Split returns the parent path and the last component of a clean path.
// The root path splits into ("/", "").
func Split(path string) (string, string) {
	idx := strings.LastIndex(path, Separator)
	if idx <= 0 {
		return Root, path[idx+1:]
	}

	return path[:idx], path[idx+1:]
}
