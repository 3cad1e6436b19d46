package geminiapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestFirstImage(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Nil(t, firstImage(nil))
	})

	t.Run("empty response", func(t *testing.T) {
		assert.Nil(t, firstImage(&genai.GenerateImagesResponse{}))
	})

	t.Run("skips empty entries", func(t *testing.T) {
		resp := &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				nil,
				{Image: &genai.Image{}},
				{Image: &genai.Image{ImageBytes: []byte("png-data"), MIMEType: "image/png"}},
			},
		}

		img := firstImage(resp)
		assert.NotNil(t, img)
		assert.Equal(t, []byte("png-data"), img.Data)
		assert.Equal(t, "image/png", img.MimeType)
	})

	t.Run("defaults missing mime type to PNG", func(t *testing.T) {
		resp := &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{Image: &genai.Image{ImageBytes: []byte("data")}},
			},
		}

		img := firstImage(resp)
		assert.NotNil(t, img)
		assert.Equal(t, "image/png", img.MimeType)
	})
}

func TestCandidateModels(t *testing.T) {
	t.Run("configured model comes first", func(t *testing.T) {
		models := candidateModels("gemini-2.5-flash-image")
		assert.Equal(t, []string{
			"gemini-2.5-flash-image",
			"imagen-4.0-generate-001",
			"imagen-4.0-fast-generate-001",
		}, models)
	})

	t.Run("configured fallback is not tried twice", func(t *testing.T) {
		models := candidateModels("imagen-4.0-generate-001")
		assert.Equal(t, []string{
			"imagen-4.0-generate-001",
			"imagen-4.0-fast-generate-001",
		}, models)
	})
}

func TestIsBillingError(t *testing.T) {
	assert.True(t, isBillingError(errors.New("Imagen requires a billed Google account")))
	assert.True(t, isBillingError(errors.New("BILLING must be enabled")))
	assert.False(t, isBillingError(errors.New("rate limit exceeded")))
}
