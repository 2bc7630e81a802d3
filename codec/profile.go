// Package codec implements the storage layouts of the value profiles.
//
// A Session walks a value and writes it through the marshallers of one
// profile, or reads a node tree back into a value:
//
//   - Native keeps the exact type of every value, recorded in a type tag.
//   - Compat follows the conventions of an external numerical tool: every
//     array is at least two dimensional, text is stored as fixed-width
//     character cells and containers collapse into cell arrays.
//   - Plain stores values in their raw array form without type metadata.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tarantool/go-valuestore/marshaller"
)

// Profile selects a storage layout.
type Profile int

const (
	// Native preserves the declared type of every value.
	Native Profile = iota
	// Compat follows the external tool layout.
	Compat
	// Plain writes raw arrays without type metadata.
	Plain
)

// ErrUnknownProfile is returned by ParseProfile for unknown names.
var ErrUnknownProfile = errors.New("unknown profile")

func (p Profile) String() string {
	switch p {
	case Native:
		return "native"
	case Compat:
		return "compat"
	case Plain:
		return "plain"
	default:
		return "Unknown"
	}
}

// ParseProfile parses a profile name as returned by Profile.String.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native":
		return Native, nil
	case "compat", "matlab":
		return Compat, nil
	case "plain":
		return Plain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}

// NewRegistry returns the built-in marshallers of p.
func NewRegistry(p Profile) (*marshaller.Registry, error) {
	switch p {
	case Native:
		return marshaller.NewRegistry(
			nativeNone{},
			nativeScalar{},
			nativeText{},
			nativeArray{},
			nativeMapping{},
			nativeSequence{},
		), nil
	case Compat:
		return marshaller.NewRegistry(
			compatNumeric{},
			compatText{},
			compatCell{},
			compatStruct{},
		), nil
	case Plain:
		return marshaller.NewRegistry(
			plainArray{},
			plainMapping{},
		), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownProfile, int(p))
	}
}
