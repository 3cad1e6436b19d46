package restapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/basel-ax/imagegen/internal/domain"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "https://images.invalid/v1/generate"

// Client represents a client for a prompt-in, image-out HTTP endpoint.
// The endpoint accepts POST {"prompt": "..."} and answers with either
// {"image_base64": "..."} or {"image_url": "..."}.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a new image generation API client
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Endpoint returns the endpoint the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate sends the prompt to the endpoint and returns the image bytes.
// A single attempt is made per call; all failures are returned as errors.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	payload, err := json.Marshal(map[string]string{"prompt": req.FullPrompt()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		ImageBase64 string `json:"image_base64"`
		ImageURL    string `json:"image_url"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case result.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image_base64: %w", err)
		}
		return newImage(data), nil

	case result.ImageURL != "":
		data, err := c.fetchImage(ctx, result.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image_url: %w", err)
		}
		return newImage(data), nil

	default:
		return nil, fmt.Errorf("response contains neither image_base64 nor image_url")
	}
}

// fetchImage downloads the image bytes referenced by an image_url response.
func (c *Client) fetchImage(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func newImage(data []byte) *domain.GeneratedImage {
	return &domain.GeneratedImage{
		Data:     data,
		MimeType: http.DetectContentType(data),
	}
}
