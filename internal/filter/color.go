package filter

import (
	"math"

	"github.com/slateplayer/slate/internal/frame"
)

func clampU8(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// luma is the BT.601 weighting used for every grayscale conversion in
// the pipeline.
func luma(b, g, r byte) byte {
	return byte((299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000)
}

// grayPlane extracts the luma plane of f, one byte per pixel.
func grayPlane(f *frame.Frame) []byte {
	out := make([]byte, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		row := y * f.Stride
		for x := 0; x < f.Width; x++ {
			i := row + x*3
			out[y*f.Width+x] = luma(f.Pix[i], f.Pix[i+1], f.Pix[i+2])
		}
	}
	return out
}

// grayscale replaces every pixel with its luma, keeping three channels
// so downstream consumers see the same layout.
func grayscale(f *frame.Frame) *frame.Frame {
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.BGR(x, y)
			v := luma(b, g, r)
			out.SetBGR(x, y, v, v, v)
		}
	}
	return out
}

// saturate scales the HSV saturation channel by factor (0 desaturates
// to gray, 1 is identity, 2 doubles saturation).
func saturate(f *frame.Frame, factor float64) *frame.Frame {
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.BGR(x, y)
			h, s, v := rgbToHSV(float64(r)/255, float64(g)/255, float64(b)/255)
			s = math.Min(s*factor, 1)
			rr, gg, bb := hsvToRGB(h, s, v)
			out.SetBGR(x, y, clampU8(bb*255), clampU8(gg*255), clampU8(rr*255))
		}
	}
	return out
}

func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := v - c
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// sepiaPresets are the tone matrices, rows ordered r, g, b with
// weights applied to (r, g, b) of the source pixel.
var sepiaPresets = map[string][3][3]float64{
	"classic": {
		{0.393, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.131},
	},
	"warm": {
		{0.443, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.131},
	},
	"cool": {
		{0.393, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.231},
	},
	"vintage": {
		{0.493, 0.769, 0.189},
		{0.349, 0.786, 0.168},
		{0.272, 0.534, 0.131},
	},
}

// sepia applies the preset tone matrix scaled by intensity. Intensity
// scales the matrix weights themselves rather than blending the result
// with the source, so low intensities darken as well as desaturate.
func sepia(f *frame.Frame, preset string, intensity float64) *frame.Frame {
	m := sepiaPresets[preset]
	if intensity != 1.0 {
		for i := range m {
			for j := range m[i] {
				m[i][j] *= intensity
			}
		}
	}
	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.BGR(x, y)
			rf, gf, bf := float64(r), float64(g), float64(b)
			out.SetBGR(x, y,
				clampU8(m[2][0]*rf+m[2][1]*gf+m[2][2]*bf),
				clampU8(m[1][0]*rf+m[1][1]*gf+m[1][2]*bf),
				clampU8(m[0][0]*rf+m[0][1]*gf+m[0][2]*bf))
		}
	}
	return out
}

// autoContrast stretches the luma range of the frame to [0, 255]. A
// flat frame (max == min) is returned unchanged.
func autoContrast(f *frame.Frame) *frame.Frame {
	gray := grayPlane(f)
	minV, maxV := gray[0], gray[0]
	for _, v := range gray {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		return f.Clone()
	}
	alpha := 255.0 / float64(maxV-minV)
	beta := -float64(minV) * alpha

	out := frame.New(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.BGR(x, y)
			out.SetBGR(x, y,
				clampU8(alpha*float64(b)+beta),
				clampU8(alpha*float64(g)+beta),
				clampU8(alpha*float64(r)+beta))
		}
	}
	return out
}
