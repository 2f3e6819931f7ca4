// Package filter implements the frame post-processing pipeline: an
// ordered chain of visual transforms, each selecting between a
// hardware-accelerated and a portable software execution strategy at
// construction time.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/slateplayer/slate/internal/accel"
	"github.com/slateplayer/slate/internal/frame"
)

// Sepia preset codes used in accel.Params, since params carry only
// numbers across the runtime boundary.
var sepiaPresetCodes = map[string]float64{
	"classic": 0, "warm": 1, "cool": 2, "vintage": 3,
}

// stage is one transform in the chain. The execution strategy is fixed
// at construction; a runtime hardware failure demotes the stage to its
// software path for the remainder of the session (never per frame, to
// avoid visible flicker). A stage with no software path is disabled
// and passes frames through unmodified.
type stage struct {
	name     string
	op       accel.Op
	params   accel.Params
	software func(*frame.Frame) *frame.Frame

	rt       accel.Runtime // nil when software was selected
	fellBack atomic.Bool
	disabled atomic.Bool

	log *slog.Logger
}

func (s *stage) apply(f *frame.Frame) *frame.Frame {
	if s.rt != nil && !s.fellBack.Load() {
		out, err := s.rt.Apply(s.op, f, s.params)
		if err == nil && out != nil && out.Width == f.Width && out.Height == f.Height {
			return out
		}
		if err == nil {
			err = fmt.Errorf("accelerator returned mismatched frame")
		}
		s.fellBack.Store(true)
		if s.software != nil {
			s.log.Warn("hardware stage failed, falling back to software for this session",
				"stage", s.name, "error", err)
		} else {
			s.disabled.Store(true)
			s.log.Warn("hardware stage failed with no software fallback, stage disabled",
				"stage", s.name, "error", err)
		}
	}
	if s.disabled.Load() || s.software == nil {
		return f
	}
	return s.software(f)
}

// Pipeline applies the configured stages in order, one frame in, one
// frame out. Stages are pure with respect to frame content; no
// cross-frame state exists.
type Pipeline struct {
	stages []*stage
	log    *slog.Logger
}

// NewPipeline validates cfg and builds the chain. The accelerator
// handle is probed exactly once here; the hardware/software choice per
// stage is never re-evaluated per frame.
func NewPipeline(ctx context.Context, cfg Config, handle *accel.Handle, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("filter configuration: %w", err)
	}

	var rt accel.Runtime
	if handle != nil && handle.Available(ctx) {
		rt = handle.Runtime()
	}

	p := &Pipeline{log: logger}
	for _, name := range cfg.Chain {
		s := &stage{name: name, rt: rt, log: logger}
		switch name {
		case StageGrayscale:
			s.op = accel.OpGrayscale
			s.software = grayscale
		case StageSaturation:
			factor := cfg.Saturation.Factor
			s.op = accel.OpSaturation
			s.params = accel.Params{"factor": factor}
			s.software = func(f *frame.Frame) *frame.Frame { return saturate(f, factor) }
		case StageSepia:
			preset, intensity := cfg.Sepia.Preset, cfg.Sepia.Intensity
			s.op = accel.OpSepia
			s.params = accel.Params{"preset": sepiaPresetCodes[preset], "intensity": intensity}
			s.software = func(f *frame.Frame) *frame.Frame { return sepia(f, preset, intensity) }
		case StageContrast:
			s.op = accel.OpContrast
			s.software = autoContrast
		case StageGaussianBlur:
			kernel, sigma := cfg.Gaussian.Kernel, cfg.Gaussian.Sigma
			s.op = accel.OpGaussianBlur
			s.params = accel.Params{"kernel": float64(kernel), "sigma": sigma}
			s.software = func(f *frame.Frame) *frame.Frame { return gaussianBlur(f, kernel, sigma) }
		case StageMedianBlur:
			kernel := cfg.Median.Kernel
			s.op = accel.OpMedianBlur
			s.params = accel.Params{"kernel": float64(kernel)}
			s.software = func(f *frame.Frame) *frame.Frame { return medianBlur(f, kernel) }
		case StageBilateral:
			bp := cfg.Bilateral
			s.op = accel.OpBilateral
			s.params = accel.Params{
				"diameter":    float64(bp.Diameter),
				"sigma_color": bp.SigmaColor,
				"sigma_space": bp.SigmaSpace,
				"intensity":   bp.Intensity,
			}
			s.software = func(f *frame.Frame) *frame.Frame {
				return bilateral(f, bp.Diameter, bp.SigmaColor, bp.SigmaSpace, bp.Intensity)
			}
		case StageSobel:
			kernel := cfg.Sobel.Kernel
			s.op = accel.OpSobel
			s.params = accel.Params{"kernel": float64(kernel)}
			s.software = func(f *frame.Frame) *frame.Frame { return sobelEdges(f, kernel) }
		case StageEmboss:
			s.op = accel.OpEmboss
			s.software = emboss
		case StageSharpen:
			kernel, strength := cfg.Sharpen.Kernel, cfg.Sharpen.Strength
			s.op = accel.OpSharpen
			s.params = accel.Params{"kernel": float64(kernel), "strength": strength}
			s.software = func(f *frame.Frame) *frame.Frame { return sharpen(f, kernel, strength) }
		case StageOilPainting:
			size, dynamics := cfg.Oil.Size, cfg.Oil.Dynamics
			s.op = accel.OpOilPainting
			s.params = accel.Params{"size": float64(size), "dynamics": float64(dynamics)}
			s.software = func(f *frame.Frame) *frame.Frame { return oilPaint(f, size, dynamics) }
		}
		p.stages = append(p.stages, s)
	}

	mode := "software"
	if rt != nil {
		mode = "hardware"
	}
	logger.Info("filter pipeline constructed", "stages", len(p.stages), "dispatch", mode)
	return p, nil
}

// Process runs one frame through every stage in order. Dimensions are
// preserved end to end.
func (p *Pipeline) Process(f *frame.Frame) (*frame.Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	for _, s := range p.stages {
		f = s.apply(f)
	}
	return f, nil
}

// Stages lists the configured stage names in application order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}
