// Package decode treats video decoding as an opaque capability: given
// a media file, produce a sequence of frames plus duration/metadata.
// Backends are pluggable; the selector tries them in registration
// order.
package decode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slateplayer/slate/internal/frame"
)

// ErrNoBackend is returned when no registered backend can open a file.
var ErrNoBackend = errors.New("no decode backend could open file")

// Info is the per-file metadata reported by a backend at open time.
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
	Codec    string
}

// FrameProducer yields decoded frames in presentation order. Next
// returns io.EOF when the stream ends.
type FrameProducer interface {
	Next() (*frame.Frame, error)
	Close() error
}

// Backend opens one media file for decoding.
type Backend interface {
	Name() string
	Open(ctx context.Context, path string) (FrameProducer, Info, error)
}

// Selector picks the first backend able to open a given entry.
type Selector struct {
	backends []Backend
}

// NewSelector creates a selector over the given backends, tried in
// order.
func NewSelector(backends ...Backend) *Selector {
	return &Selector{backends: backends}
}

// Open opens path with the first backend that accepts it.
func (s *Selector) Open(ctx context.Context, path string) (FrameProducer, Info, error) {
	var lastErr error
	for _, b := range s.backends {
		p, info, err := b.Open(ctx, path)
		if err == nil {
			return p, info, nil
		}
		lastErr = fmt.Errorf("%s: %w", b.Name(), err)
	}
	if lastErr != nil {
		return nil, Info{}, fmt.Errorf("%w: %s", ErrNoBackend, lastErr)
	}
	return nil, Info{}, ErrNoBackend
}
