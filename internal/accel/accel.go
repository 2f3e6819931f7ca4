// Package accel abstracts the optional hardware accelerator used by
// filter stages, with a process-wide probe-once capability handle.
package accel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/slateplayer/slate/internal/frame"
)

// Op names one accelerable filter operation. The vocabulary is shared
// between filter stages and vendor runtimes.
type Op string

const (
	OpGrayscale    Op = "grayscale"
	OpSaturation   Op = "saturation"
	OpSepia        Op = "sepia"
	OpContrast     Op = "contrast"
	OpGaussianBlur Op = "gaussian_blur"
	OpMedianBlur   Op = "median_blur"
	OpBilateral    Op = "bilateral"
	OpSobel        Op = "sobel"
	OpEmboss       Op = "emboss"
	OpSharpen      Op = "sharpen"
	OpOilPainting  Op = "oil_painting"
)

// Params carries the numeric parameters of one operation. Keys match
// the filter configuration field names.
type Params map[string]float64

// ErrNotAvailable is returned by Probe when no compatible accelerator
// is present.
var ErrNotAvailable = errors.New("accelerator not available")

// Runtime is the vendor-specific accelerator collaborator. Apply must
// return a frame with the same dimensions as its input.
type Runtime interface {
	Name() string
	Probe(ctx context.Context) error
	Apply(op Op, f *frame.Frame, p Params) (*frame.Frame, error)
	Close() error
}

// Handle is the process-wide accelerator capability token. It probes
// the runtime lazily at most once and is read-only after that; every
// pipeline shares one handle.
type Handle struct {
	rt  Runtime
	log *slog.Logger

	once      sync.Once
	available bool
}

// NewHandle wraps a runtime. rt may be nil, in which case the handle
// always reports unavailable and every stage runs its software path.
func NewHandle(rt Runtime, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handle{rt: rt, log: logger}
}

// Available probes the runtime on first call and caches the outcome.
// Safe for concurrent use; the probe runs exactly once per process.
func (h *Handle) Available(ctx context.Context) bool {
	h.once.Do(func() {
		if h.rt == nil {
			h.log.Info("no accelerator runtime configured, using software filters")
			return
		}
		if err := h.rt.Probe(ctx); err != nil {
			h.log.Info("accelerator unavailable, using software filters",
				"runtime", h.rt.Name(), "error", err)
			return
		}
		h.log.Info("accelerator initialized", "runtime", h.rt.Name())
		h.available = true
	})
	return h.available
}

// Runtime returns the wrapped runtime, or nil when none is configured.
func (h *Handle) Runtime() Runtime { return h.rt }

// Close tears the runtime down at shutdown. Idempotent for a nil
// runtime.
func (h *Handle) Close() error {
	if h.rt == nil {
		return nil
	}
	return h.rt.Close()
}
