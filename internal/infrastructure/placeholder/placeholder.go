package placeholder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/basel-ax/imagegen/internal/domain"
)

const (
	width      = 1024
	height     = 768
	margin     = 20
	lineSpacer = 8
)

var (
	background = color.RGBA{R: 28, G: 28, B: 30, A: 255}
	foreground = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Render draws the message onto a fixed-size dark canvas and returns it as
// a PNG. The output is deterministic for a given message and never involves
// network access.
func Render(message string) (*domain.GeneratedImage, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: face,
	}

	lineHeight := face.Metrics().Height.Ceil() + lineSpacer
	y := margin + face.Metrics().Ascent.Ceil()
	for _, line := range wrapText(drawer, message, width-2*margin) {
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}

	return &domain.GeneratedImage{
		Data:     buf.Bytes(),
		MimeType: "image/png",
	}, nil
}

// wrapText splits the message into lines that fit maxWidth when drawn with
// the drawer's face. Words longer than maxWidth get a line of their own.
func wrapText(d *font.Drawer, message string, maxWidth int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(message) {
		candidate := strings.TrimSpace(current + " " + word)
		if d.MeasureString(candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
