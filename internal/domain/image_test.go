package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationRequest_FullPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		want string
	}{
		{
			name: "bare prompt",
			req:  GenerationRequest{Prompt: "a red circle"},
			want: "a red circle",
		},
		{
			name: "lens only",
			req:  GenerationRequest{Prompt: "sunset", Lens: "Fisheye"},
			want: "sunset, Fisheye",
		},
		{
			name: "focal length only",
			req:  GenerationRequest{Prompt: "sunset", FocalLength: "35mm"},
			want: "sunset, 35mm",
		},
		{
			name: "focal length and regular lens joined with a space",
			req:  GenerationRequest{Prompt: "sunset", Lens: "Wide-angle", FocalLength: "24mm"},
			want: "sunset, 24mm Wide-angle",
		},
		{
			name: "telephoto lens joined with a comma",
			req:  GenerationRequest{Prompt: "sunset", Lens: "Telephoto zoom", FocalLength: "200mm"},
			want: "sunset, 200mm, Telephoto zoom",
		},
		{
			name: "high-res suffix",
			req:  GenerationRequest{Prompt: "sunset", HighRes: true},
			want: "sunset, in high resolution",
		},
		{
			name: "modifier and high-res suffix",
			req:  GenerationRequest{Prompt: "sunset", Lens: "Macro lens", HighRes: true},
			want: "sunset, Macro lens, in high resolution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.FullPrompt())
		})
	}
}
