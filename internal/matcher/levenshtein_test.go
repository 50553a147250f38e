package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"ABX", "ABC", 1},
		{"ABX", "XYZ", 3},
		{"flaw", "lawn", 2},
		{"ação", "acao", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Distance(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"", "xyz"},
		{"RJO01", "RJO10"},
		{"a", "ab"},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}
