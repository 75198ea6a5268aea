// Package inference sends a prompt plus camera frames to a multimodal
// model and returns its text.
//
// Client speaks the OpenAI chat completions API (OpenAI, Ollama, vLLM and
// other compatible servers); Gemini uses Google's genai SDK. Fallback
// combines them so reasoning survives one provider being down.
//
//	primary, _ := inference.NewClient(inference.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	backup, _ := inference.NewGemini(ctx, inference.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
//	p, _ := inference.NewFallback(logger, primary, backup)
//
//	resp, _ := p.Vision(ctx, &inference.VisionRequest{
//	    Images: []inference.Image{inference.JPEG(frame)},
//	    Prompt: "Where is the nearest cafe?",
//	})
package inference

import "context"

// Provider is a multimodal model endpoint.
type Provider interface {
	Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// Health verifies connectivity and credentials without spending tokens
	// on a completion.
	Health(ctx context.Context) error

	Close() error
}

// VisionRequest is one prompt with its frames. Zero-valued tuning fields
// fall back to the provider's Config.
type VisionRequest struct {
	Images      []Image // oldest first
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// VisionResponse is the model's answer.
type VisionResponse struct {
	Content   string
	Usage     Usage
	Model     string
	LatencyMs int64
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
