package autofill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	leadmagnet "github.com/lvillar/leadmagnet"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", leadmagnet.ErrNotConfigured)
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends req and returns the text of the first candidate.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		MaxOutputTokens:  req.MaxTokens,
		ResponseMIMEType: "application/json",
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", networkError(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &leadmagnet.AutofillParseError{Reason: "empty response"}
	}
	return text, nil
}

func networkError(err error) error {
	ne := &leadmagnet.NetworkError{Service: "gemini", Err: err}
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		ne.StatusCode = apiErr.Code
	case errors.As(err, &apiErrPtr):
		ne.StatusCode = apiErrPtr.Code
	}
	return ne
}
