package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/basel-ax/imagegen/internal/config"
	"github.com/basel-ax/imagegen/internal/domain"
	"github.com/basel-ax/imagegen/internal/infrastructure/geminiapi"
	"github.com/basel-ax/imagegen/internal/infrastructure/placeholder"
	"github.com/basel-ax/imagegen/internal/infrastructure/restapi"
)

const noKeyMessage = "(No GEMINI_API_KEY set)"

// GenerationService turns prompts into images. Without an API key it serves
// local placeholder images and never touches the network.
type GenerationService struct {
	cfg      *config.Config
	provider domain.Generator
}

// NewGenerationService selects the provider from the configuration: no API
// key means placeholder-only operation, a custom endpoint selects the REST
// adapter, otherwise the Gemini SDK is used.
func NewGenerationService(ctx context.Context, cfg *config.Config) (*GenerationService, error) {
	svc := &GenerationService{cfg: cfg}

	switch {
	case !cfg.HasAPIKey():
		// placeholder-only; provider stays nil
	case cfg.Endpoint != "":
		svc.provider = restapi.NewClient(cfg.Endpoint, cfg.APIKey, cfg.HTTPTimeout)
	default:
		client, err := geminiapi.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		svc.provider = client
	}

	return svc, nil
}

// Generate produces an image for the request
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	if req.AspectRatio == "" {
		req.AspectRatio = s.cfg.DefaultAspectRatio
	}

	if s.provider == nil {
		return placeholder.Render(noKeyMessage)
	}

	img, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	return img, nil
}
