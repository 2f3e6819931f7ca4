package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/slateplayer/slate/internal/accel"
	"github.com/slateplayer/slate/internal/decode"
	"github.com/slateplayer/slate/internal/filter"
	"github.com/slateplayer/slate/internal/frame"
	"github.com/slateplayer/slate/internal/player"
	"github.com/slateplayer/slate/internal/playlist"
	"github.com/slateplayer/slate/internal/scan"
	"github.com/slateplayer/slate/internal/watch"
)

var playCmd = &cobra.Command{
	Use:   "play [roots...]",
	Short: "Scan and play media through the filter pipeline",
	Long: `Scan the roots (or load a saved playlist) and play every entry
through the configured filter chain.

Examples:
  slate play /media/videos
  slate play --shuffle --loop /media/videos
  slate play --playlist night.playlist
  slate play --watch /media/videos`,
	RunE: runPlayCmd,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addScanFlags(playCmd)
	playCmd.Flags().String("playlist", "", "Play a saved playlist file instead of scanning")
	playCmd.Flags().Bool("shuffle", false, "Shuffle playback order")
	playCmd.Flags().Bool("loop", false, "Restart the playlist after the last entry")
	playCmd.Flags().Float64("speed", 0, "Playback rate multiplier (0.5-5.0)")
	playCmd.Flags().Bool("watch", false, "Rescan and restart playback when a root changes")
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	pcfg := cfg.Player
	if v, _ := cmd.Flags().GetBool("shuffle"); v {
		pcfg.Shuffle = true
	}
	if v, _ := cmd.Flags().GetBool("loop"); v {
		pcfg.Loop = true
	}
	if v, _ := cmd.Flags().GetFloat64("speed"); v != 0 {
		if err := validateSpeed(v); err != nil {
			return err
		}
		pcfg.Speed = v
	}
	playlistPath, _ := cmd.Flags().GetString("playlist")
	watchMode, _ := cmd.Flags().GetBool("watch")

	handle := openAccelerator()
	defer func() { _ = handle.Close() }()

	pipe, err := filter.NewPipeline(ctx, cfg.Filters, handle, logger)
	if err != nil {
		return err
	}
	logger.Info("filter pipeline ready", "stages", pipe.Stages())

	sel := decode.NewSelector(&decode.FFmpegBackend{})
	p := player.New(player.Options{
		Loop:      pcfg.Loop,
		LoopDelay: pcfg.LoopDelay,
		Speed:     pcfg.Speed,
	}, sel, pipe, &progressDisplay{log: logger}, logger)

	opts, roots := scanSettings(cmd, args)

	for {
		pl, err := buildPlaylist(ctx, playlistPath, opts, roots)
		if err != nil {
			return err
		}
		if pl.Len() == 0 {
			return scan.ErrNoMedia
		}
		if pcfg.Shuffle {
			pl.Shuffle()
		}

		playCtx, cancelPlay := context.WithCancel(ctx)
		var changed atomic.Bool
		var w *watch.Watcher
		if watchMode && playlistPath == "" {
			w, err = watch.New(roots, func() {
				changed.Store(true)
				cancelPlay()
			}, logger)
			if err != nil {
				logger.Warn("root watching disabled", "error", err)
			} else {
				go func() { _ = w.Run(playCtx) }()
			}
		}

		err = p.Play(playCtx, pl)
		cancelPlay()
		if w != nil {
			_ = w.Close()
		}

		if ctx.Err() != nil {
			logger.Info("playback interrupted")
			return nil
		}
		if changed.Load() {
			logger.Info("roots changed, rescanning")
			continue
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// validateSpeed holds the --speed flag to the same range the config
// file enforces.
func validateSpeed(v float64) error {
	if v < 0.5 || v > 5.0 {
		return fmt.Errorf("speed: must be between 0.5 and 5.0, got %g", v)
	}
	return nil
}

// buildPlaylist scans the roots, or loads a saved playlist file when
// one was given.
func buildPlaylist(ctx context.Context, path string, opts scan.Options, roots []string) (*playlist.Playlist, error) {
	if path != "" {
		return playlist.LoadFile(path, logger)
	}
	res, err := scan.New(opts, logger).Scan(ctx, roots)
	if err != nil {
		return nil, err
	}
	return res.Playlist(), nil
}

// openAccelerator builds the process-wide accelerator handle from the
// config. Failure to construct the vendor runtime is never fatal; the
// pipeline runs its software paths instead.
func openAccelerator() *accel.Handle {
	if !cfg.Accelerator.Enabled {
		return accel.NewHandle(nil, logger)
	}
	rt, err := accel.Open(cfg.Accelerator.Vendor)
	if err != nil {
		logger.Warn("accelerator runtime not available, using software filters",
			"vendor", cfg.Accelerator.Vendor, "error", err)
		return accel.NewHandle(nil, logger)
	}
	return accel.NewHandle(rt, logger)
}

// progressDisplay is the headless display: rendering happens in an
// embedding surface, so the CLI consumes filtered frames and reports
// throughput.
type progressDisplay struct {
	log    *slog.Logger
	frames int
	start  time.Time
}

func (d *progressDisplay) Show(f *frame.Frame) error {
	if d.frames == 0 {
		d.start = time.Now()
	}
	d.frames++
	if d.frames%300 == 0 {
		elapsed := time.Since(d.start).Seconds()
		d.log.Info("playback progress",
			"frames", d.frames,
			"fps", fmt.Sprintf("%.1f", float64(d.frames)/elapsed),
			"size", fmt.Sprintf("%dx%d", f.Width, f.Height))
	}
	return nil
}

func (d *progressDisplay) Close() error { return nil }
