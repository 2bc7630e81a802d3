package driver

// Compare is the comparison performed by a Predicate.
type Compare int

const (
	// CompareEqual holds when the stored attribute equals the operand.
	CompareEqual Compare = iota
	// CompareNotEqual holds when the stored attribute differs from the operand.
	CompareNotEqual
)

func (c Compare) String() string {
	switch c {
	case CompareEqual:
		return "Equal"
	case CompareNotEqual:
		return "NotEqual"
	default:
		return "Unknown"
	}
}

// Predicate compares the modification revision of a key with an operand.
// A missing key has revision 0, so VersionEqual(key, 0) means "key does not
// exist".
type Predicate struct {
	key      []byte
	compare  Compare
	revision int64
}

// VersionEqual holds when key was last modified at revision.
func VersionEqual(key []byte, revision int64) Predicate {
	return Predicate{key: key, compare: CompareEqual, revision: revision}
}

// VersionNotEqual holds when key was not last modified at revision.
func VersionNotEqual(key []byte, revision int64) Predicate {
	return Predicate{key: key, compare: CompareNotEqual, revision: revision}
}

// Missing holds when key does not exist.
func Missing(key []byte) Predicate {
	return VersionEqual(key, 0)
}

// Key returns the key the predicate applies to.
func (p Predicate) Key() []byte {
	return p.key
}

// Compare returns the comparison.
func (p Predicate) Compare() Compare {
	return p.compare
}

// Revision returns the operand.
func (p Predicate) Revision() int64 {
	return p.revision
}
