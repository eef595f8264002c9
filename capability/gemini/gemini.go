// Package gemini implements the text-completion port with Google's Gemini
// API, the provider the original system was built against.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
)

// Options configure the Gemini port adapter.
type Options struct {
	Model  string
	APIKey string
}

// Port wraps the Gemini generative API behind capability.TextCompletion. A
// client is created per call because the SDK ties clients to a context.
type Port struct {
	opts Options
}

// New creates a Gemini port.
func New(apiKey string, optFns ...func(o *Options)) *Port {
	opts := Options{
		Model:  "gemini-1.5-flash",
		APIKey: apiKey,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Port{opts: opts}
}

// Complete implements capability.TextCompletion.
func (p *Port) Complete(ctx context.Context, req capability.TextRequest) (string, error) {
	if p.opts.APIKey == "" {
		return "", fmt.Errorf("%w: gemini api key not configured", capability.ErrProvider)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.opts.APIKey))
	if err != nil {
		return "", fmt.Errorf("%w: creating gemini client: %v", capability.ErrProvider, err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.opts.Model)
	temperature := float32(req.Temperature)
	model.Temperature = &temperature
	if req.MaxTokens > 0 {
		maxTokens := int32(req.MaxTokens)
		model.MaxOutputTokens = &maxTokens
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", capability.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", capability.ErrProvider, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response from gemini", capability.ErrProvider)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts in gemini response", capability.ErrProvider)
	}
	return sb.String(), nil
}
