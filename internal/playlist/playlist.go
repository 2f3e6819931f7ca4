// Package playlist holds the ordered collection of discovered media
// entries that drives playback order.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"
)

// Entry is one discovered playable file. Immutable once created.
type Entry struct {
	Path         string // absolute
	Format       Format
	DiscoveredAt time.Time
}

// Playlist is an ordered, mutable sequence of entries. Insertion order
// is discovery order. Not safe for concurrent mutation; the scan
// completes before playback begins.
type Playlist struct {
	entries []Entry
}

// New returns an empty playlist.
func New() *Playlist {
	return &Playlist{}
}

// Append adds entries at the end, preserving their order.
func (p *Playlist) Append(entries ...Entry) {
	p.entries = append(p.entries, entries...)
}

// Len returns the number of entries.
func (p *Playlist) Len() int { return len(p.entries) }

// At returns the entry at index i.
func (p *Playlist) At(i int) Entry { return p.entries[i] }

// Entries returns a copy of the current order.
func (p *Playlist) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Shuffle permutes the playlist in place with a uniform Fisher-Yates
// permutation. math/rand/v2 is seeded from the OS; no biased
// sort-by-random-key shortcuts.
func (p *Playlist) Shuffle() {
	rand.Shuffle(len(p.entries), func(i, j int) {
		p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	})
}

// Export writes the current order to w, one absolute path per line,
// UTF-8, no header. Suitable for later Load.
func (p *Playlist) Export(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range p.entries {
		if _, err := fmt.Fprintln(bw, e.Path); err != nil {
			return fmt.Errorf("write playlist: %w", err)
		}
	}
	return bw.Flush()
}

// ExportFile writes the playlist to path, replacing any existing file.
func (p *Playlist) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create playlist file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return p.Export(f)
}

// Load reconstructs a playlist from the line-oriented export form.
// Entries whose files no longer exist are dropped with a warning; the
// remaining order is preserved verbatim from the source.
func Load(r io.Reader, logger *slog.Logger) (*Playlist, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := New()
	sc := bufio.NewScanner(r)
	now := time.Now()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err != nil {
			logger.Warn("dropping stale playlist entry", "path", line, "error", err)
			continue
		}
		format, _ := Classify(line)
		p.Append(Entry{Path: line, Format: format, DiscoveredAt: now})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return p, nil
}

// LoadFile reads a playlist previously written by Export.
func LoadFile(path string, logger *slog.Logger) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, logger)
}
