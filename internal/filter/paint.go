package filter

import (
	"github.com/slateplayer/slate/internal/frame"
)

// oilPaint posterizes the frame into painterly strokes. For each pixel
// the neighborhood of the given size is histogrammed by quantized
// intensity (luma / dynamics), and the output pixel is the mean color
// of the pixels in the most populated bin. Ties pick the lowest bin so
// repeated runs stay identical.
func oilPaint(f *frame.Frame, size, dynamics int) *frame.Frame {
	gray := grayPlane(f)
	half := size / 2
	bins := 256/dynamics + 1

	out := frame.New(f.Width, f.Height)
	counts := make([]int, bins)
	sumB := make([]int, bins)
	sumG := make([]int, bins)
	sumR := make([]int, bins)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			for i := range counts {
				counts[i], sumB[i], sumG[i], sumR[i] = 0, 0, 0, 0
			}
			for dy := -half; dy <= half; dy++ {
				ny := clampCoord(y+dy, f.Height)
				for dx := -half; dx <= half; dx++ {
					nx := clampCoord(x+dx, f.Width)
					bin := int(gray[ny*f.Width+nx]) / dynamics
					b, g, r := f.BGR(nx, ny)
					counts[bin]++
					sumB[bin] += int(b)
					sumG[bin] += int(g)
					sumR[bin] += int(r)
				}
			}
			best := 0
			for i := 1; i < bins; i++ {
				if counts[i] > counts[best] {
					best = i
				}
			}
			n := counts[best]
			out.SetBGR(x, y,
				byte(sumB[best]/n),
				byte(sumG[best]/n),
				byte(sumR[best]/n))
		}
	}
	return out
}
