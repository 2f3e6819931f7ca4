package playlist

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// findThreshold is the minimum Jaro-Winkler similarity for Find to
// report a match. Below this the query is considered unrelated to
// anything in the playlist.
const findThreshold = 0.70

// Find returns the entry whose title best matches query, using
// Jaro-Winkler similarity over normalized base names. ok is false when
// nothing scores above the match threshold.
func (p *Playlist) Find(query string) (Entry, bool) {
	want := normalizeTitle(query)
	if want == "" {
		return Entry{}, false
	}

	var (
		best      Entry
		bestScore float64
	)
	for _, e := range p.entries {
		got := normalizeTitle(entryTitle(e.Path))
		score := float64(edlib.JaroWinklerSimilarity(want, got))
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	if bestScore < findThreshold {
		return Entry{}, false
	}
	return best, true
}

// entryTitle strips directory and extension from a path.
func entryTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// normalizeTitle lowercases, removes accents, and collapses everything
// that is not a letter or digit into single spaces.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
