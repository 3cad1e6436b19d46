package geminiapi

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/basel-ax/imagegen/internal/domain"
)

// fallbackModels are tried in order when the configured model does not
// produce an image for this API key.
var fallbackModels = []string{
	"imagen-4.0-generate-001",
	"imagen-4.0-fast-generate-001",
}

// Client represents the Gemini image generation client
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client authenticated with the API key
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client: c,
		model:  model,
	}, nil
}

// Generate requests one image for the prompt. The configured model is tried
// first, then the known Imagen fallbacks. Billing rejections map to
// domain.ErrBillingRequired so the UI can react to them specifically.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	}
	if req.AspectRatio != "" {
		cfg.AspectRatio = req.AspectRatio
	}

	var lastErr error
	for _, model := range candidateModels(c.model) {
		resp, err := c.client.Models.GenerateImages(ctx, model, req.FullPrompt(), cfg)
		if err != nil {
			if isBillingError(err) {
				return nil, fmt.Errorf("model %s: %w", model, domain.ErrBillingRequired)
			}
			lastErr = err
			continue
		}

		if img := firstImage(resp); img != nil {
			return img, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no image generated: %w", lastErr)
	}
	return nil, fmt.Errorf("no image generated for prompt")
}

// candidateModels returns the configured model followed by the fallbacks,
// skipping a fallback that duplicates the configured model.
func candidateModels(model string) []string {
	models := []string{model}
	for _, m := range fallbackModels {
		if m != model {
			models = append(models, m)
		}
	}
	return models
}

// firstImage extracts the first non-empty image from the response.
func firstImage(resp *genai.GenerateImagesResponse) *domain.GeneratedImage {
	if resp == nil {
		return nil
	}
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := generated.Image.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return &domain.GeneratedImage{
			Data:     generated.Image.ImageBytes,
			MimeType: mimeType,
		}
	}
	return nil
}

func isBillingError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "billing") || strings.Contains(msg, "billed")
}
