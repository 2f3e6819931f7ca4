package filter

import (
	"math"

	"github.com/slateplayer/slate/internal/frame"
)

// sobelKernels holds the horizontal-gradient kernels by aperture size.
var sobelKernels = map[int][][]float64{
	3: {
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	},
	5: {
		{-1, -2, 0, 2, 1},
		{-4, -8, 0, 8, 4},
		{-6, -12, 0, 12, 6},
		{-4, -8, 0, 8, 4},
		{-1, -2, 0, 2, 1},
	},
}

// laplacianKernels holds the laplacian apertures used by sharpen.
var laplacianKernels = map[int][][]float64{
	1: {
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	},
	3: {
		{2, 0, 2},
		{0, -8, 0},
		{2, 0, 2},
	},
}

var embossKernel = [][]float64{
	{-2, -1, 0},
	{-1, 1, 1},
	{0, 1, 2},
}

// convolveGray convolves a single-channel plane with k, replicating
// the border. Result values are unclamped.
func convolveGray(src []byte, w, h int, k [][]float64) []float64 {
	n := len(k)
	mid := n / 2
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := 0; ky < n; ky++ {
				sy := clampCoord(y+ky-mid, h)
				for kx := 0; kx < n; kx++ {
					sx := clampCoord(x+kx-mid, w)
					sum += k[ky][kx] * float64(src[sy*w+sx])
				}
			}
			out[y*w+x] = sum
		}
	}
	return out
}

// sobelEdges converts to grayscale, applies the horizontal sobel
// gradient, and replicates the absolute response into three channels.
func sobelEdges(f *frame.Frame, kernel int) *frame.Frame {
	gray := grayPlane(f)
	grad := convolveGray(gray, f.Width, f.Height, sobelKernels[kernel])
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := clampU8(math.Abs(grad[y*f.Width+x]))
			out.SetBGR(x, y, v, v, v)
		}
	}
	return out
}

// emboss applies the fixed directional kernel per channel with a +128
// offset, giving the relief look.
func emboss(f *frame.Frame) *frame.Frame {
	n := len(embossKernel)
	mid := n / 2
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			var sb, sg, sr float64
			for ky := 0; ky < n; ky++ {
				sy := clampCoord(y+ky-mid, f.Height)
				for kx := 0; kx < n; kx++ {
					sx := clampCoord(x+kx-mid, f.Width)
					w := embossKernel[ky][kx]
					b, g, r := f.BGR(sx, sy)
					sb += w * float64(b)
					sg += w * float64(g)
					sr += w * float64(r)
				}
			}
			out.SetBGR(x, y, clampU8(sb+128), clampU8(sg+128), clampU8(sr+128))
		}
	}
	return out
}

// sharpen blends the absolute laplacian of the luma back onto the
// source. strength 1..10 maps linearly to a blend weight of 0.15..1.05.
func sharpen(f *frame.Frame, kernel int, strength float64) *frame.Frame {
	boost := 0.05 + strength*0.1
	gray := grayPlane(f)
	lap := convolveGray(gray, f.Width, f.Height, laplacianKernels[kernel])
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			edge := boost * math.Abs(lap[y*f.Width+x])
			b, g, r := f.BGR(x, y)
			out.SetBGR(x, y,
				clampU8(float64(b)+edge),
				clampU8(float64(g)+edge),
				clampU8(float64(r)+edge))
		}
	}
	return out
}
