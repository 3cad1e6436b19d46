package imgedit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"

	"github.com/disintegration/imaging"
)

// Filter names accepted by Settings.Filter.
const (
	FilterNone      = "None"
	FilterGrayscale = "Grayscale"
	FilterSepia     = "Sepia"
	FilterBlur      = "Blur"
	FilterSharpen   = "Sharpen"
)

// Filters lists the selectable filters in UI order.
var Filters = []string{FilterNone, FilterGrayscale, FilterSepia, FilterBlur, FilterSharpen}

// Settings holds the adjustment values applied to a generated image.
// Multipliers use 1.0 as the identity; the zero value is not neutral,
// use Neutral() instead.
type Settings struct {
	Filter     string
	Brightness float64 // channel scale, 1.0 = unchanged
	Contrast   float64 // scale around the midpoint, 1.0 = unchanged
	Saturation float64 // 0 = grayscale, 1.0 = unchanged
	Vignette   float64 // 0 = off, 1.0 = strongest corner darkening
	Sharpness  float64 // below 1.0 blurs, above 1.0 sharpens
}

// Neutral returns settings that leave the image unchanged.
func Neutral() Settings {
	return Settings{
		Filter:     FilterNone,
		Brightness: 1,
		Contrast:   1,
		Saturation: 1,
		Vignette:   0,
		Sharpness:  1,
	}
}

// Presets maps preset names to edit settings.
var Presets = map[string]Settings{
	"Cinematic":     {Filter: FilterNone, Brightness: 0.95, Contrast: 1.20, Saturation: 1.10, Vignette: 0.20, Sharpness: 1.10},
	"Filmic":        {Filter: FilterNone, Brightness: 0.95, Contrast: 1.05, Saturation: 0.95, Vignette: 0.18, Sharpness: 1.05},
	"Vibrant":       {Filter: FilterNone, Brightness: 1.05, Contrast: 1.10, Saturation: 1.40, Vignette: 0, Sharpness: 1.15},
	"Soft":          {Filter: FilterNone, Brightness: 1.05, Contrast: 0.90, Saturation: 0.95, Vignette: 0.05, Sharpness: 0.85},
	"High Contrast": {Filter: FilterNone, Brightness: 1.00, Contrast: 1.40, Saturation: 1.00, Vignette: 0.10, Sharpness: 1.20},
}

// Apply runs the filter and adjustments over the image bytes and returns
// the result as PNG. The input may be any format image.Decode understands.
func Apply(data []byte, s Settings) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img := imaging.Clone(src)

	switch s.Filter {
	case FilterGrayscale:
		img = imaging.Grayscale(img)
	case FilterSepia:
		img = imaging.AdjustFunc(img, sepia)
	case FilterBlur:
		img = imaging.Blur(img, 2)
	case FilterSharpen:
		img = imaging.Sharpen(img, 2)
	}

	if s.Brightness > 0 && s.Brightness != 1 {
		img = imaging.AdjustFunc(img, scaleChannels(s.Brightness))
	}
	if s.Contrast > 0 && s.Contrast != 1 {
		img = imaging.AdjustContrast(img, (s.Contrast-1)*100)
	}
	if s.Saturation >= 0 && s.Saturation != 1 {
		img = imaging.AdjustSaturation(img, (s.Saturation-1)*100)
	}
	if s.Vignette > 0 {
		img = vignette(img, s.Vignette)
	}

	switch {
	case s.Sharpness > 1:
		img = imaging.Sharpen(img, (s.Sharpness-1)*2)
	case s.Sharpness > 0 && s.Sharpness < 1:
		img = imaging.Blur(img, (1-s.Sharpness)*5)
	}

	return encodePNG(img)
}

// ToPNG re-encodes arbitrary image bytes as PNG. PNG input is returned
// unchanged.
func ToPNG(data []byte) ([]byte, error) {
	if http.DetectContentType(data) == "image/png" {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// sepia applies the classic sepia weights to a single pixel.
func sepia(c color.NRGBA) color.NRGBA {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)
	return color.NRGBA{
		R: clamp(0.393*r + 0.769*g + 0.189*b),
		G: clamp(0.349*r + 0.686*g + 0.168*b),
		B: clamp(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func scaleChannels(factor float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(float64(c.R) * factor),
			G: clamp(float64(c.G) * factor),
			B: clamp(float64(c.B) * factor),
			A: c.A,
		}
	}
}

// vignette darkens pixels by their normalized distance from the center.
func vignette(img *image.NRGBA, strength float64) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / cx
			dy := (float64(y) - cy) / cy
			d := math.Sqrt(dx*dx + dy*dy)
			factor := 1 - math.Min(1, d*strength*1.5)

			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(float64(out.Pix[i+0]) * factor)
			out.Pix[i+1] = uint8(float64(out.Pix[i+1]) * factor)
			out.Pix[i+2] = uint8(float64(out.Pix[i+2]) * factor)
		}
	}
	return out
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
