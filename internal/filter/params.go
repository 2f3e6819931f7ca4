package filter

import (
	"errors"
	"fmt"
)

// Stage names accepted in a filter chain.
const (
	StageGrayscale    = "grayscale"
	StageSaturation   = "saturation"
	StageSepia        = "sepia"
	StageContrast     = "contrast"
	StageGaussianBlur = "gaussian_blur"
	StageMedianBlur   = "median_blur"
	StageBilateral    = "bilateral"
	StageSobel        = "sobel"
	StageEmboss       = "emboss"
	StageSharpen      = "sharpen"
	StageOilPainting  = "oil_painting"
)

// Config is an ordered list of enabled filter stages plus the
// parameters for each. Parameters are validated here, before pipeline
// construction; out-of-range values are rejected, never clamped
// mid-stream.
type Config struct {
	// Chain lists enabled stages in application order.
	Chain []string `toml:"chain"`

	Bilateral  BilateralParams   `toml:"bilateral"`
	Gaussian   GaussianParams    `toml:"gaussian_blur"`
	Median     MedianParams      `toml:"median_blur"`
	Saturation SaturationParams  `toml:"saturation"`
	Sepia      SepiaParams       `toml:"sepia"`
	Sobel      SobelParams       `toml:"sobel"`
	Sharpen    SharpenParams     `toml:"sharpen"`
	Oil        OilPaintingParams `toml:"oil_painting"`
}

// BilateralParams configure the edge-preserving smoothing stage.
type BilateralParams struct {
	// Diameter of the pixel neighborhood, odd, 3..15.
	Diameter int `toml:"diameter"`
	// SigmaColor in 10..200.
	SigmaColor float64 `toml:"sigma_color"`
	// SigmaSpace in 10..200.
	SigmaSpace float64 `toml:"sigma_space"`
	// Intensity blends filtered output with the source, 0..100 percent.
	Intensity float64 `toml:"intensity"`
}

func (p BilateralParams) Validate() error {
	if p.Diameter < 3 || p.Diameter > 15 || p.Diameter%2 == 0 {
		return fmt.Errorf("bilateral.diameter: must be odd and in [3, 15], got %d", p.Diameter)
	}
	if p.SigmaColor < 10 || p.SigmaColor > 200 {
		return fmt.Errorf("bilateral.sigma_color: must be in [10, 200], got %g", p.SigmaColor)
	}
	if p.SigmaSpace < 10 || p.SigmaSpace > 200 {
		return fmt.Errorf("bilateral.sigma_space: must be in [10, 200], got %g", p.SigmaSpace)
	}
	if p.Intensity < 0 || p.Intensity > 100 {
		return fmt.Errorf("bilateral.intensity: must be in [0, 100], got %g", p.Intensity)
	}
	return nil
}

// GaussianParams configure the gaussian blur stage.
type GaussianParams struct {
	// Kernel size, odd, 3..15.
	Kernel int `toml:"kernel"`
	// Sigma >= 0; zero derives sigma from the kernel size.
	Sigma float64 `toml:"sigma"`
}

func (p GaussianParams) Validate() error {
	if p.Kernel < 3 || p.Kernel > 15 || p.Kernel%2 == 0 {
		return fmt.Errorf("gaussian_blur.kernel: must be odd and in [3, 15], got %d", p.Kernel)
	}
	if p.Sigma < 0 {
		return fmt.Errorf("gaussian_blur.sigma: must be >= 0, got %g", p.Sigma)
	}
	return nil
}

// MedianParams configure the median blur stage.
type MedianParams struct {
	// Kernel size, 3 or 5.
	Kernel int `toml:"kernel"`
}

func (p MedianParams) Validate() error {
	if p.Kernel != 3 && p.Kernel != 5 {
		return fmt.Errorf("median_blur.kernel: must be 3 or 5, got %d", p.Kernel)
	}
	return nil
}

// SaturationParams configure the saturation stage.
type SaturationParams struct {
	// Factor scales the HSV saturation channel, 0..2.
	Factor float64 `toml:"factor"`
}

func (p SaturationParams) Validate() error {
	if p.Factor < 0 || p.Factor > 2 {
		return fmt.Errorf("saturation.factor: must be in [0, 2], got %g", p.Factor)
	}
	return nil
}

// SepiaParams configure the sepia tone stage.
type SepiaParams struct {
	// Preset selects the tone matrix: classic, warm, cool, vintage.
	Preset string `toml:"preset"`
	// Intensity scales the effect, 0..1.
	Intensity float64 `toml:"intensity"`
}

func (p SepiaParams) Validate() error {
	if _, ok := sepiaPresets[p.Preset]; !ok {
		return fmt.Errorf("sepia.preset: must be one of classic, warm, cool, vintage; got %q", p.Preset)
	}
	if p.Intensity < 0 || p.Intensity > 1 {
		return fmt.Errorf("sepia.intensity: must be in [0, 1], got %g", p.Intensity)
	}
	return nil
}

// SobelParams configure the edge detection stage.
type SobelParams struct {
	// Kernel size, 3 or 5.
	Kernel int `toml:"kernel"`
}

func (p SobelParams) Validate() error {
	if p.Kernel != 3 && p.Kernel != 5 {
		return fmt.Errorf("sobel.kernel: must be 3 or 5, got %d", p.Kernel)
	}
	return nil
}

// SharpenParams configure the laplacian boost stage.
type SharpenParams struct {
	// Kernel is the laplacian aperture, 1 or 3.
	Kernel int `toml:"kernel"`
	// Strength in 1..10; blend weight is 0.05 + strength*0.1.
	Strength float64 `toml:"strength"`
}

func (p SharpenParams) Validate() error {
	if p.Kernel != 1 && p.Kernel != 3 {
		return fmt.Errorf("sharpen.kernel: must be 1 or 3, got %d", p.Kernel)
	}
	if p.Strength < 1 || p.Strength > 10 {
		return fmt.Errorf("sharpen.strength: must be in [1, 10], got %g", p.Strength)
	}
	return nil
}

// OilPaintingParams configure the painterly posterization stage.
type OilPaintingParams struct {
	// Size is the neighborhood window, 5..15.
	Size int `toml:"size"`
	// Dynamics quantizes intensities into 256/Dynamics bins, 1..5.
	Dynamics int `toml:"dynamics"`
}

func (p OilPaintingParams) Validate() error {
	if p.Size < 5 || p.Size > 15 {
		return fmt.Errorf("oil_painting.size: must be in [5, 15], got %d", p.Size)
	}
	if p.Dynamics < 1 || p.Dynamics > 5 {
		return fmt.Errorf("oil_painting.dynamics: must be in [1, 5], got %d", p.Dynamics)
	}
	return nil
}

// DefaultConfig returns the parameter defaults. The chain starts empty;
// playback with no filters is the common case.
func DefaultConfig() Config {
	return Config{
		Bilateral:  BilateralParams{Diameter: 9, SigmaColor: 75, SigmaSpace: 75, Intensity: 85},
		Gaussian:   GaussianParams{Kernel: 5, Sigma: 0},
		Median:     MedianParams{Kernel: 3},
		Saturation: SaturationParams{Factor: 1.0},
		Sepia:      SepiaParams{Preset: "classic", Intensity: 1.0},
		Sobel:      SobelParams{Kernel: 3},
		Sharpen:    SharpenParams{Kernel: 3, Strength: 9.5},
		Oil:        OilPaintingParams{Size: 7, Dynamics: 1},
	}
}

// Validate checks the chain and the parameters of every enabled stage.
func (c Config) Validate() error {
	var errs []error
	for _, name := range c.Chain {
		switch name {
		case StageGrayscale, StageContrast, StageEmboss:
			// no parameters
		case StageBilateral:
			errs = append(errs, c.Bilateral.Validate())
		case StageGaussianBlur:
			errs = append(errs, c.Gaussian.Validate())
		case StageMedianBlur:
			errs = append(errs, c.Median.Validate())
		case StageSaturation:
			errs = append(errs, c.Saturation.Validate())
		case StageSepia:
			errs = append(errs, c.Sepia.Validate())
		case StageSobel:
			errs = append(errs, c.Sobel.Validate())
		case StageSharpen:
			errs = append(errs, c.Sharpen.Validate())
		case StageOilPainting:
			errs = append(errs, c.Oil.Validate())
		default:
			errs = append(errs, fmt.Errorf("unknown filter stage %q", name))
		}
	}
	return errors.Join(errs...)
}
