// Package ignore decides whether a directory is excluded from media
// discovery based on the presence of a marker file.
package ignore

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MarkerName is the reserved exclusion marker file name. The match is
// case-insensitive and presence-only; the file's content is never read.
const MarkerName = ".ignore"

// Resolver evaluates exclusion markers for directories during a scan.
// It is safe for concurrent use; roots are scanned in parallel.
type Resolver struct {
	override bool

	mu      sync.Mutex
	markers []string
}

// NewResolver returns a resolver. When override is true every
// directory is treated as included regardless of markers, but markers
// are still recorded for reporting.
func NewResolver(override bool) *Resolver {
	return &Resolver{override: override}
}

// Excluded reports whether the directory at dir is excluded, given its
// already-listed entries. The caller supplies the entries so that each
// directory is read exactly once per scan.
func (r *Resolver) Excluded(dir string, entries []fs.DirEntry) bool {
	found := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(e.Name(), MarkerName) {
			r.record(filepath.Join(dir, e.Name()))
			found = true
			break
		}
	}
	return found && !r.override
}

func (r *Resolver) record(path string) {
	r.mu.Lock()
	r.markers = append(r.markers, path)
	r.mu.Unlock()
}

// Markers returns every marker file seen so far, sorted for stable
// output across parallel root scans.
func (r *Resolver) Markers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.markers))
	copy(out, r.markers)
	sort.Strings(out)
	return out
}
