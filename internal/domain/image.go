package domain

import (
	"context"
	"strings"
)

// AspectRatios lists the aspect ratios accepted by the generation providers.
var AspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

// GenerationRequest represents the parameters for a single image generation
type GenerationRequest struct {
	Prompt      string
	AspectRatio string
	Lens        string
	FocalLength string
	HighRes     bool
}

// FullPrompt composes the prompt sent to the provider. Camera modifiers are
// appended after the base prompt; telephoto lenses are joined to the focal
// length with a comma, other lenses with a space.
func (r GenerationRequest) FullPrompt() string {
	prompt := r.Prompt

	var modifier string
	switch {
	case r.FocalLength != "" && r.Lens != "":
		if strings.Contains(strings.ToLower(r.Lens), "telephoto") {
			modifier = r.FocalLength + ", " + r.Lens
		} else {
			modifier = r.FocalLength + " " + r.Lens
		}
	case r.FocalLength != "":
		modifier = r.FocalLength
	case r.Lens != "":
		modifier = r.Lens
	}

	if modifier != "" {
		prompt = prompt + ", " + modifier
	}
	if r.HighRes {
		prompt = prompt + ", in high resolution"
	}

	return prompt
}

// GeneratedImage represents the raw image bytes produced by a Generator
type GeneratedImage struct {
	Data     []byte
	MimeType string
}

// Generator defines the interface for image generation providers
type Generator interface {
	// Generate produces a single image for the given request
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedImage, error)
}
