// Package anthropic implements the text-completion port with the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
)

// Options configure the Anthropic port adapter.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Port wraps the Anthropic Messages API behind capability.TextCompletion.
type Port struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic port using the official client.
func New(optFns ...func(o *Options)) *Port {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Port{client: &client, opts: opts}
}

// NewFromClient creates a port from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Port {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Port{client: client, opts: opts}
}

// Complete implements capability.TextCompletion.
func (p *Port) Complete(ctx context.Context, req capability.TextRequest) (string, error) {
	maxTokens := p.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       p.opts.Model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", capability.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", capability.ErrProvider, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", capability.ErrProvider)
	}
	return sb.String(), nil
}
