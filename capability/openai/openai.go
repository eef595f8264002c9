// Package openai implements the text-completion port with the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
)

// Options configure the OpenAI port adapter. Fields mirror a minimal subset
// of Chat Completion parameters; request-level MaxTokens/Temperature override
// the defaults per call. An empty APIKey falls back to the environment.
type Options struct {
	Model               string
	MaxCompletionTokens int64
	APIKey              string
}

// Port wraps the OpenAI Chat Completions API behind capability.TextCompletion.
type Port struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI port using the official client.
func New(optFns ...func(o *Options)) *Port {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return &Port{client: &client, opts: opts}
}

// NewFromClient creates a port from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Port {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Port{client: client, opts: opts}
}

// Complete implements capability.TextCompletion.
func (p *Port) Complete(ctx context.Context, req capability.TextRequest) (string, error) {
	maxTokens := p.opts.MaxCompletionTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model:               p.opts.Model,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", capability.ErrProvider)
	}
	return completion.Choices[0].Message.Content, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", capability.ErrTimeout, err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return fmt.Errorf("%w: %v", capability.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", capability.ErrProvider, err)
}
