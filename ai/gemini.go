package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// GeminiClient generates text through the Gemini API. The API key is read
// from the environment by the genai client.
type GeminiClient struct {
	model string
}

// NewGeminiClient returns a client bound to the given model name.
func NewGeminiClient(model string) *GeminiClient {
	return &GeminiClient{model: model}
}

func (g *GeminiClient) Generate(ctx context.Context, system, user string, maxOutputTokens int32) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		MaxOutputTokens:   maxOutputTokens,
		Temperature:       genai.Ptr[float32](0.1),
	}
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
