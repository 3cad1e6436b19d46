package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basel-ax/imagegen/internal/domain"
)

func TestNewClient_DefaultEndpoint(t *testing.T) {
	c := NewClient("", "key", time.Second)
	assert.Equal(t, DefaultEndpoint, c.Endpoint())

	c = NewClient("https://images.example.com/generate", "key", time.Second)
	assert.Equal(t, "https://images.example.com/generate", c.Endpoint())
}

func TestGenerate_Base64Response(t *testing.T) {
	var gotBody map[string]string
	var gotAuth, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		// "aGVsbG8=" is base64 for "hello"
		_ = json.NewEncoder(w).Encode(map[string]string{"image_base64": "aGVsbG8="})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret-key", time.Second)
	img, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), img.Data)
	assert.Equal(t, "sunset", gotBody["prompt"])
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestGenerate_URLResponse(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"image_url": server.URL + "/image.png"})
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(imageBytes)
	})

	c := NewClient(server.URL+"/generate", "key", time.Second)
	img, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "a red circle"})

	require.NoError(t, err)
	assert.Equal(t, imageBytes, img.Data)
}

func TestGenerate_Base64PreferredOverURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"image_base64": "aGVsbG8=",
			"image_url":    "http://unreachable.invalid/image.png",
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second)
	img, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), img.Data)
}

func TestGenerate_MissingBothFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither image_base64 nor image_url")
}

func TestGenerate_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGenerate_InvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"image_base64": "!!not-base64!!"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image_base64")
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestGenerate_FetchError(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"image_url": server.URL + "/missing.png"})
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	c := NewClient(server.URL+"/generate", "key", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch image_url")
}

func TestGenerate_NoAuthorizationWithoutKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"image_base64": "aGVsbG8="})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second)
	_, err := c.Generate(context.Background(), domain.GenerationRequest{Prompt: "sunset"})

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
