// Package player drives the steady-state playback loop: per entry,
// decode frames, run them through the filter pipeline, and hand each
// one to the display collaborator per tick.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slateplayer/slate/internal/decode"
	"github.com/slateplayer/slate/internal/filter"
	"github.com/slateplayer/slate/internal/frame"
	"github.com/slateplayer/slate/internal/playlist"
)

// Display accepts one filtered frame per tick. It is an external
// collaborator; dimensions are preserved end to end.
type Display interface {
	Show(f *frame.Frame) error
	Close() error
}

// fallbackFPS is used when a container reports no frame rate.
const fallbackFPS = 30.0

// frameLead is how many decoded-and-filtered frames may sit ahead of
// the display; decode must outrun the display by a safety margin.
const frameLead = 2

// Options control playback behavior across the whole playlist.
type Options struct {
	// Loop restarts the playlist after its last entry.
	Loop bool
	// LoopDelay is the pause between entries.
	LoopDelay time.Duration
	// Speed is the playback rate multiplier, 0.5..5.0.
	Speed float64
}

// Player plays every entry of a playlist in order.
type Player struct {
	opts    Options
	sel     *decode.Selector
	pipe    *filter.Pipeline
	display Display
	log     *slog.Logger
}

// New assembles a player.
func New(opts Options, sel *decode.Selector, pipe *filter.Pipeline, display Display, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Speed <= 0 {
		opts.Speed = 1.0
	}
	return &Player{opts: opts, sel: sel, pipe: pipe, display: display, log: logger}
}

// Play runs the playlist until it ends (or forever with Loop) or the
// context is canceled. A failing entry is skipped with a warning;
// playback never aborts because one file would not decode.
func (p *Player) Play(ctx context.Context, pl *playlist.Playlist) error {
	if pl.Len() == 0 {
		return errors.New("empty playlist")
	}
	for {
		for i := 0; i < pl.Len(); i++ {
			entry := pl.At(i)
			p.log.Info("playing", "index", i+1, "total", pl.Len(), "path", entry.Path)
			if err := p.playOne(ctx, entry); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.log.Warn("skipping entry", "path", entry.Path, "error", err)
			}
			// No pause after the last entry of a non-looping run.
			if p.opts.LoopDelay > 0 && (p.opts.Loop || i < pl.Len()-1) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(p.opts.LoopDelay):
				}
			}
		}
		if !p.opts.Loop {
			return nil
		}
	}
}

// playOne decodes and displays a single entry. Decoding and filtering
// run ahead of the display tick by a small bounded lead.
func (p *Player) playOne(ctx context.Context, entry playlist.Entry) error {
	prod, info, err := p.sel.Open(ctx, entry.Path)
	if err != nil {
		return err
	}
	defer func() { _ = prod.Close() }()

	fps := info.FPS
	if fps <= 0 {
		fps = fallbackFPS
	}
	interval := time.Duration(float64(time.Second) / (fps * p.opts.Speed))

	frames := make(chan *frame.Frame, frameLead)
	g, gctx := errgroup.WithContext(ctx)

	// Decode + filter ahead of the display.
	g.Go(func() error {
		defer close(frames)
		for {
			f, err := prod.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			out, err := p.pipe.Process(f)
			if err != nil {
				return fmt.Errorf("filter: %w", err)
			}
			select {
			case frames <- out:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// One frame out per tick.
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for f := range frames {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
			}
			if err := p.display.Show(f); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
		return nil
	})

	return g.Wait()
}
