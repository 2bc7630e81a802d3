package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarantool/go-valuestore/internal/options"
)

type limits struct {
	depth   int
	retries int
	names   []string
}

func defaultLimits() limits {
	return limits{depth: 256, retries: 8, names: nil}
}

func withDepth(n int) options.OptionCallback[limits] {
	return func(l *limits) { l.depth = n }
}

func withName(name string) options.OptionCallback[limits] {
	return func(l *limits) { l.names = append(l.names, name) }
}

func TestApplyOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		constructor options.OptionConstructor[limits]
		callbacks   []options.OptionCallback[limits]
		expected    limits
	}{
		{
			name:        "defaults",
			constructor: defaultLimits,
			callbacks:   nil,
			expected:    limits{depth: 256, retries: 8, names: nil},
		},
		{
			name:        "nil constructor starts from zero",
			constructor: nil,
			callbacks:   []options.OptionCallback[limits]{withDepth(4)},
			expected:    limits{depth: 4, retries: 0, names: nil},
		},
		{
			name:        "later callbacks win",
			constructor: defaultLimits,
			callbacks:   []options.OptionCallback[limits]{withDepth(4), withDepth(16)},
			expected:    limits{depth: 16, retries: 8, names: nil},
		},
		{
			name:        "callbacks accumulate in order",
			constructor: defaultLimits,
			callbacks:   []options.OptionCallback[limits]{withName("a"), withName("b")},
			expected:    limits{depth: 256, retries: 8, names: []string{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, options.ApplyOptions(tt.constructor, tt.callbacks))
		})
	}
}

func TestApplyOptions_FreshDefaults(t *testing.T) {
	t.Parallel()

	first := options.ApplyOptions(defaultLimits, []options.OptionCallback[limits]{withName("a")})
	second := options.ApplyOptions(defaultLimits, nil)

	assert.Equal(t, []string{"a"}, first.names)
	assert.Nil(t, second.names)
}
