package filter

import (
	"math"
	"sort"

	"github.com/slateplayer/slate/internal/frame"
)

// gaussianKernel builds a normalized 1-D kernel. sigma <= 0 derives
// sigma from the kernel size the way OpenCV does.
func gaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	k := make([]float64, size)
	mid := size / 2
	sum := 0.0
	for i := range k {
		d := float64(i - mid)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// clampCoord replicates the border.
func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

// gaussianBlur applies a separable gaussian with the given kernel size
// and sigma.
func gaussianBlur(f *frame.Frame, size int, sigma float64) *frame.Frame {
	k := gaussianKernel(size, sigma)
	mid := size / 2

	// Horizontal pass into a float buffer, vertical pass back to bytes.
	tmp := make([]float64, f.Width*f.Height*3)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			var sb, sg, sr float64
			for i, w := range k {
				b, g, r := f.BGR(clampCoord(x+i-mid, f.Width), y)
				sb += w * float64(b)
				sg += w * float64(g)
				sr += w * float64(r)
			}
			j := (y*f.Width + x) * 3
			tmp[j], tmp[j+1], tmp[j+2] = sb, sg, sr
		}
	}
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			var sb, sg, sr float64
			for i, w := range k {
				j := (clampCoord(y+i-mid, f.Height)*f.Width + x) * 3
				sb += w * tmp[j]
				sg += w * tmp[j+1]
				sr += w * tmp[j+2]
			}
			out.SetBGR(x, y, clampU8(sb), clampU8(sg), clampU8(sr))
		}
	}
	return out
}

// medianBlur replaces each channel sample with the median of its
// size x size neighborhood.
func medianBlur(f *frame.Frame, size int) *frame.Frame {
	mid := size / 2
	out := frame.New(f.Width, f.Height)
	window := make([][3]byte, 0, size*size)
	chans := make([]byte, 0, size*size)

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			window = window[:0]
			for dy := -mid; dy <= mid; dy++ {
				for dx := -mid; dx <= mid; dx++ {
					b, g, r := f.BGR(clampCoord(x+dx, f.Width), clampCoord(y+dy, f.Height))
					window = append(window, [3]byte{b, g, r})
				}
			}
			var med [3]byte
			for c := 0; c < 3; c++ {
				chans = chans[:0]
				for _, px := range window {
					chans = append(chans, px[c])
				}
				sort.Slice(chans, func(i, j int) bool { return chans[i] < chans[j] })
				med[c] = chans[len(chans)/2]
			}
			out.SetBGR(x, y, med[0], med[1], med[2])
		}
	}
	return out
}

// bilateral applies edge-preserving smoothing over a diameter-wide
// neighborhood, weighting neighbors by spatial distance (sigmaSpace)
// and color distance (sigmaColor), then blends the result with the
// source by intensity percent.
func bilateral(f *frame.Frame, diameter int, sigmaColor, sigmaSpace, intensity float64) *frame.Frame {
	radius := diameter / 2
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)

	// Precompute spatial weights for the window.
	spatial := make([]float64, diameter*diameter)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*diameter+(dx+radius)] = math.Exp(d2 * spaceCoeff)
		}
	}

	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			cb, cg, cr := f.BGR(x, y)
			var wSum, sb, sg, sr float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					b, g, r := f.BGR(clampCoord(x+dx, f.Width), clampCoord(y+dy, f.Height))
					cd := float64(absDiff(b, cb) + absDiff(g, cg) + absDiff(r, cr))
					w := spatial[(dy+radius)*diameter+(dx+radius)] * math.Exp(cd*cd*colorCoeff)
					wSum += w
					sb += w * float64(b)
					sg += w * float64(g)
					sr += w * float64(r)
				}
			}
			out.SetBGR(x, y, clampU8(sb/wSum), clampU8(sg/wSum), clampU8(sr/wSum))
		}
	}

	// Intensity < 100% blends the filtered frame back toward the source.
	if alpha := intensity / 100.0; alpha < 1.0 {
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				ob, og, or := out.BGR(x, y)
				ib, ig, ir := f.BGR(x, y)
				out.SetBGR(x, y,
					clampU8((1-alpha)*float64(ib)+alpha*float64(ob)),
					clampU8((1-alpha)*float64(ig)+alpha*float64(og)),
					clampU8((1-alpha)*float64(ir)+alpha*float64(or)))
			}
		}
	}
	return out
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
