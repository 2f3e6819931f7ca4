// Package frame defines the pixel buffer exchanged between the decode
// backend, the filter pipeline, and the display surface.
package frame

import "fmt"

// Frame is one decoded video frame: interleaved BGR, 8 bits per
// channel. Stride is bytes per row and is always >= Width*3.
//
// A Frame is exclusively owned by whoever holds it; filter stages
// either mutate in place or return a fresh buffer, never both.
type Frame struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// New allocates a zeroed frame with a packed stride.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pix:    make([]byte, width*height*3),
	}
}

// Clone returns a deep copy with the same dimensions and stride.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Stride: f.Stride, Pix: pix}
}

// BGR returns the pixel at (x, y).
func (f *Frame) BGR(x, y int) (b, g, r byte) {
	i := y*f.Stride + x*3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetBGR stores the pixel at (x, y).
func (f *Frame) SetBGR(x, y int, b, g, r byte) {
	i := y*f.Stride + x*3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
}

// Validate checks that the buffer is consistent with the declared
// dimensions.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame: invalid dimensions %dx%d", f.Width, f.Height)
	}
	if f.Stride < f.Width*3 {
		return fmt.Errorf("frame: stride %d too small for width %d", f.Stride, f.Width)
	}
	if need := f.Stride * f.Height; len(f.Pix) < need {
		return fmt.Errorf("frame: buffer %d bytes, need %d", len(f.Pix), need)
	}
	return nil
}
