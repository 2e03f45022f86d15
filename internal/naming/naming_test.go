package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSuffixes(t *testing.T) {
	tests := []struct {
		name  string
		table string
		want  string
	}{
		{name: "no suffix", table: "roads", want: "roads"},
		{name: "wgs84", table: "roads_wgs84", want: "roads"},
		{name: "eureffin", table: "lakes_eureffin", want: "lakes"},
		{name: "ykj", table: "grid_ykj", want: "grid"},
		{name: "fmi20", table: "stations_fmi20", want: "stations"},
		{name: "multiple suffixes", table: "foo_wgs84_ykj", want: "foo"},
		{name: "repeated suffix", table: "a_ykj_ykj", want: "a"},
		{name: "suffix in the middle", table: "rivers_wgs84_line", want: "rivers_line"},
		{name: "only suffix", table: "_fmi20", want: ""},
		{name: "empty", table: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSuffixes(tt.table))
		})
	}
}

func TestNormalizer_Order(t *testing.T) {
	// Removing "_ab" first exposes nothing new; removing "_a" first would
	// leave "b" behind. The list order decides.
	n := New([]string{"_ab", "_a"})
	assert.Equal(t, "x", n.ShortName("x_ab"))

	n = New([]string{"_a", "_ab"})
	assert.Equal(t, "xb", n.ShortName("x_ab"))
}

func TestNew_DefaultsAndEmptyEntries(t *testing.T) {
	assert.Equal(t, DefaultSuffixes, New(nil).Suffixes())
	assert.Equal(t, DefaultSuffixes, New([]string{}).Suffixes())
	assert.Equal(t, []string{"_x"}, New([]string{"", "_x"}).Suffixes())
}

func TestNormalizer_SuffixesIsCopy(t *testing.T) {
	n := New([]string{"_x"})
	got := n.Suffixes()
	got[0] = "_y"
	assert.Equal(t, "a", n.ShortName("a_x"))
}
