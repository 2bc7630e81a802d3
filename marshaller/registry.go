package marshaller

import (
	"github.com/tarantool/go-valuestore/store"
	"github.com/tarantool/go-valuestore/value"
)

// Registry is an ordered set of marshallers with an optional fallback.
// When several marshallers match a value, the highest Match wins and
// ties go to the one registered first.
type Registry struct {
	marshallers []Marshaller
	byTag       map[string]Marshaller
	fallback    Marshaller
}

// NewRegistry returns a registry holding marshallers in the given order.
func NewRegistry(marshallers ...Marshaller) *Registry {
	reg := &Registry{
		marshallers: nil,
		byTag:       make(map[string]Marshaller),
		fallback:    nil,
	}

	for _, m := range marshallers {
		reg.Register(m)
	}

	return reg
}

// Register appends m. A tag already claimed by an earlier marshaller
// keeps resolving to that marshaller.
func (r *Registry) Register(m Marshaller) {
	r.marshallers = append(r.marshallers, m)

	for _, tag := range m.Tags() {
		if _, ok := r.byTag[tag]; !ok {
			r.byTag[tag] = m
		}
	}
}

// SetFallback sets the marshaller used when nothing else matches.
// Its tags are resolvable by SelectByTag.
func (r *Registry) SetFallback(m Marshaller) {
	r.fallback = m

	if m == nil {
		return
	}

	for _, tag := range m.Tags() {
		if _, ok := r.byTag[tag]; !ok {
			r.byTag[tag] = m
		}
	}
}

// Marshallers returns the registered marshallers in order.
func (r *Registry) Marshallers() []Marshaller {
	return append([]Marshaller(nil), r.marshallers...)
}

// Select returns the most specific marshaller for v.
func (r *Registry) Select(v value.Value) (Marshaller, error) {
	var (
		best      Marshaller
		bestScore int
	)

	for _, m := range r.marshallers {
		if score := m.Match(v); score > bestScore {
			best, bestScore = m, score
		}
	}

	switch {
	case best != nil:
		return best, nil
	case r.fallback != nil && r.fallback.Match(v) > 0:
		return r.fallback, nil
	default:
		return nil, ErrNoMarshaller
	}
}

// SelectByTag returns the marshaller that owns tag.
func (r *Registry) SelectByTag(tag string) (Marshaller, bool) {
	m, ok := r.byTag[tag]
	return m, ok
}

// SelectByNode returns the most specific NodeMatcher for an untagged node.
func (r *Registry) SelectByNode(node store.Node, attrs Attrs) (Marshaller, error) {
	var (
		best      Marshaller
		bestScore int
	)

	candidates := r.marshallers
	if r.fallback != nil {
		candidates = append(candidates[:len(candidates):len(candidates)], r.fallback)
	}

	for _, m := range candidates {
		matcher, ok := m.(NodeMatcher)
		if !ok {
			continue
		}

		if score := matcher.MatchNode(node, attrs); score > bestScore {
			best, bestScore = m, score
		}
	}

	if best == nil {
		return nil, ErrNoMarshaller
	}

	return best, nil
}
