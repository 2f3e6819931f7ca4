package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFixture() *Playlist {
	p := New()
	p.Append(
		Entry{Path: "/media/Big.Buck.Bunny.2008.mp4", Format: FormatMP4},
		Entry{Path: "/media/Sintel (2010).mkv", Format: FormatMKV},
		Entry{Path: "/media/Tears_of_Steel.webm", Format: FormatWebM},
	)
	return p
}

func TestFind_ExactTitle(t *testing.T) {
	e, ok := findFixture().Find("big buck bunny 2008")
	require.True(t, ok)
	assert.Equal(t, "/media/Big.Buck.Bunny.2008.mp4", e.Path)
}

func TestFind_ApproximateTitle(t *testing.T) {
	e, ok := findFixture().Find("big buck bunny")
	require.True(t, ok)
	assert.Equal(t, "/media/Big.Buck.Bunny.2008.mp4", e.Path)
}

func TestFind_PunctuationAndCaseInsensitive(t *testing.T) {
	e, ok := findFixture().Find("TEARS of steel!")
	require.True(t, ok)
	assert.Equal(t, "/media/Tears_of_Steel.webm", e.Path)
}

func TestFind_NoMatch(t *testing.T) {
	_, ok := findFixture().Find("qqqq zzzz xxxx")
	assert.False(t, ok)
}

func TestFind_EmptyQuery(t *testing.T) {
	_, ok := findFixture().Find("   !!! ")
	assert.False(t, ok)
}

func TestFind_EmptyPlaylist(t *testing.T) {
	_, ok := New().Find("anything")
	assert.False(t, ok)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Big.Buck.Bunny.2008", "big buck bunny 2008"},
		{"Sintel (2010)", "sintel 2010"},
		{"Amélie", "amelie"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in), tt.in)
	}
}
