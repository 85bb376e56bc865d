package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolver(registered ...string) (func(string) bool, func() []string) {
	set := make(map[string]bool, len(registered))
	for _, r := range registered {
		set[r] = true
	}
	return func(u string) bool { return set[u] },
		func() []string { return registered }
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  []int
		ok    bool
	}{
		{"1", []int{1}, true},
		{"1.2", []int{1, 2}, true},
		{"1.2.3", []int{1, 2, 3}, true},
		{"latest", nil, false},
		{"1.2.3.4", nil, false},
		{"", nil, false},
		{"v1", nil, false},
	}
	for _, tt := range tests {
		v, ok := Parse(tt.input)
		require.Equal(t, tt.ok, ok, tt.input)
		if ok {
			assert.Equal(t, tt.want, v.Parts, tt.input)
		}
	}
}

func TestCompareTreatsMissingPartsAsZero(t *testing.T) {
	a, _ := Parse("1.2")
	b, _ := Parse("1.2.0")
	assert.Equal(t, 0, Compare(a, b))

	c, _ := Parse("1.10.0")
	d, _ := Parse("1.9.9")
	assert.Equal(t, 1, Compare(c, d))
}

func TestSplitURI(t *testing.T) {
	base, version := SplitURI("https://example.com/color/rgb/1.2.3/")
	assert.Equal(t, "https://example.com/color/rgb/", base)
	assert.Equal(t, "1.2.3", version)

	base, version = SplitURI("https://example.com/color/rgb/latest/")
	assert.Equal(t, "https://example.com/color/rgb/", base)
	assert.Equal(t, "latest", version)

	_, version = SplitURI("https://example.com/color/rgb/")
	assert.Empty(t, version)
}

func TestResolveExactHit(t *testing.T) {
	exists, all := resolver("https://x/u/1.2.3/")
	got, ok := Resolve("https://x/u/1.2.3/", exists, all)
	require.True(t, ok)
	assert.Equal(t, "https://x/u/1.2.3/", got)
}

func TestResolveFallbackChain(t *testing.T) {
	// 1.2.3 -> 1.2 -> 1 -> latest, most specific registered match wins.
	exists, all := resolver("https://x/u/1/")
	got, ok := Resolve("https://x/u/1.2.3/", exists, all)
	require.True(t, ok)
	assert.Equal(t, "https://x/u/1/", got)

	exists, all = resolver("https://x/u/1/", "https://x/u/1.2/")
	got, ok = Resolve("https://x/u/1.2.3/", exists, all)
	require.True(t, ok)
	assert.Equal(t, "https://x/u/1.2/", got)
}

func TestResolveLatestPicksHighestSibling(t *testing.T) {
	exists, all := resolver(
		"https://x/u/1.0.0/",
		"https://x/u/1.9.0/",
		"https://x/u/1.10.0/",
		"https://x/other/9.9.9/",
	)
	got, ok := Resolve("https://x/u/latest/", exists, all)
	require.True(t, ok)
	assert.Equal(t, "https://x/u/1.10.0/", got)
}

func TestResolveMiss(t *testing.T) {
	exists, all := resolver("https://x/u/1.0.0/")
	_, ok := Resolve("https://x/other/1.0.0/", exists, all)
	assert.False(t, ok)
}

func TestResolutionIsMonotone(t *testing.T) {
	// Registering a more specific URI never redirects a lookup that
	// previously hit a less specific one to an even less specific one.
	lookup := "https://x/u/1.2.3/"

	before := []string{"https://x/u/1/"}
	exists, all := resolver(before...)
	first, ok := Resolve(lookup, exists, all)
	require.True(t, ok)

	after := append(before, "https://x/u/1.2/")
	exists, all = resolver(after...)
	second, ok := Resolve(lookup, exists, all)
	require.True(t, ok)

	assert.Equal(t, "https://x/u/1/", first)
	assert.Equal(t, "https://x/u/1.2/", second)
}
