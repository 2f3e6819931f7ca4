// Package scan implements the media discovery engine: recursive
// traversal of root directories producing an ordered playlist.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/slateplayer/slate/internal/ignore"
	"github.com/slateplayer/slate/internal/playlist"
)

// ErrNoRoots is returned when none of the supplied root directories
// exist.
var ErrNoRoots = errors.New("no supplied root directory exists")

// ErrNoMedia is the session-fatal condition: a completed scan found
// nothing playable.
var ErrNoMedia = errors.New("no playable media found")

// defaultMaxDirReads bounds concurrent directory reads so a scan over
// network-mounted storage cannot livelock the process.
const defaultMaxDirReads = 16

// Options configure a scan. The flags apply uniformly to all roots.
type Options struct {
	// Recurse descends into subdirectories. When false only the
	// immediate contents of each root are scanned.
	Recurse bool
	// NoIgnore disables all exclusion-marker checks for the scan.
	NoIgnore bool
	// DisableGIF drops .gif from the recognized format set.
	DisableGIF bool
	// MaxDirReads caps concurrent directory reads across all roots.
	// Zero means the default.
	MaxDirReads int64
}

// Warning records a subtree that was skipped without aborting the scan.
type Warning struct {
	Path string
	Err  error
}

// Result is the outcome of one scan pass.
type Result struct {
	Entries  []playlist.Entry
	Warnings []Warning
	// Markers lists every exclusion marker file seen, including when
	// NoIgnore disabled their effect.
	Markers []string
}

// Playlist builds a playlist from the scan result.
func (r *Result) Playlist() *playlist.Playlist {
	p := playlist.New()
	p.Append(r.Entries...)
	return p
}

// Engine walks root directories and classifies playable media.
type Engine struct {
	opts Options
	log  *slog.Logger
	sem  *semaphore.Weighted
}

// New creates a scan engine.
func New(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	max := opts.MaxDirReads
	if max <= 0 {
		max = defaultMaxDirReads
	}
	return &Engine{
		opts: opts,
		log:  logger,
		sem:  semaphore.NewWeighted(max),
	}
}

// Scan traverses the roots in the order supplied and returns the
// discovered entries in deterministic root-then-discovery order.
// Unreadable subtrees are skipped with a warning; only the complete
// absence of usable roots is an error. Cancel the context to abort.
func (e *Engine) Scan(ctx context.Context, roots []string) (*Result, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	res := &Result{}
	resolver := ignore.NewResolver(e.opts.NoIgnore)

	// Resolve and validate roots up front; a missing root is a
	// warning unless all of them are missing.
	valid := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Path: root, Err: err})
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			if err == nil {
				err = fmt.Errorf("not a directory")
			}
			e.log.Warn("skipping root", "root", root, "error", err)
			res.Warnings = append(res.Warnings, Warning{Path: abs, Err: err})
			continue
		}
		valid = append(valid, abs)
	}
	if len(valid) == 0 {
		return nil, ErrNoRoots
	}

	// Each root's subtree is independent; scan them in parallel and
	// concatenate in root order afterwards.
	perRoot := make([]*Result, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range valid {
		i, root := i, root
		g.Go(func() error {
			r, err := e.scanRoot(gctx, root, resolver)
			if err != nil {
				return err
			}
			perRoot[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range perRoot {
		for _, entry := range r.Entries {
			if _, dup := seen[entry.Path]; dup {
				continue
			}
			seen[entry.Path] = struct{}{}
			res.Entries = append(res.Entries, entry)
		}
		res.Warnings = append(res.Warnings, r.Warnings...)
	}
	res.Markers = resolver.Markers()

	e.log.Info("scan complete",
		"roots", len(valid),
		"entries", len(res.Entries),
		"warnings", len(res.Warnings),
		"markers", len(res.Markers))
	return res, nil
}

// scanRoot walks one root with an explicit work queue; deep trees must
// not grow the goroutine stack. Directory symlinks are never followed,
// which also breaks symlink cycles.
func (e *Engine) scanRoot(ctx context.Context, root string, resolver *ignore.Resolver) (*Result, error) {
	res := &Result{}
	stack := []string{root}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := e.readDir(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("skipping unreadable directory", "dir", dir, "error", err)
			res.Warnings = append(res.Warnings, Warning{Path: dir, Err: err})
			continue
		}

		if resolver.Excluded(dir, entries) {
			continue
		}

		// os.ReadDir returns entries sorted by name, which keeps the
		// final playlist order deterministic for a fixed tree.
		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch {
			case entry.IsDir():
				if strings.HasPrefix(entry.Name(), ".") {
					continue // hidden directories are never scanned
				}
				if e.opts.Recurse {
					subdirs = append(subdirs, path)
				}
			case entry.Type()&fs.ModeSymlink != 0:
				// One extra Stat only for symlinks: follow file links,
				// refuse directory links.
				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				e.appendMedia(res, path)
			case entry.Type().IsRegular():
				e.appendMedia(res, path)
			}
		}

		// Push in reverse so the lexically first subdirectory is
		// processed next (depth-first).
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return res, nil
}

func (e *Engine) appendMedia(res *Result, path string) {
	format, ok := playlist.Classify(path)
	if !ok {
		return
	}
	if format == playlist.FormatGIF && e.opts.DisableGIF {
		return
	}
	res.Entries = append(res.Entries, playlist.Entry{
		Path:         path,
		Format:       format,
		DiscoveredAt: time.Now(),
	})
}

// readDir lists a directory under the global concurrency bound.
func (e *Engine) readDir(ctx context.Context, dir string) ([]fs.DirEntry, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)
	return os.ReadDir(dir)
}
