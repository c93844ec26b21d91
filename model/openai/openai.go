// Package openai provides a model.Caller backed by the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/agentgraph-dev/agentgraph/model"
)

// Options configures the OpenAI caller (default model id, completion token
// cap, API key). Per-call CallOptions override these defaults.
type Options struct {
	Model               string
	MaxCompletionTokens int64
	APIKey              string
}

// Caller wraps the OpenAI Chat Completions API behind the model.Caller interface.
type Caller struct {
	client *openai.Client
	opts   Options
}

var _ model.Caller = (*Caller)(nil)

// NewCaller creates a new OpenAI caller using the official client.
func NewCaller(optFns ...func(o *Options)) *Caller {
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

	return &Caller{client: &client, opts: opts}
}

// NewCallerFromClient creates a new OpenAI caller from an existing client.
func NewCallerFromClient(client *openai.Client, optFns ...func(o *Options)) *Caller {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Caller{client: client, opts: opts}
}

// Call implements model.Caller. Non-success responses surface as an error
// wrapping the SDK error, which embeds the HTTP status and response body.
func (c *Caller) Call(ctx context.Context, opts model.CallOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(opts),
		Model:               c.resolveModel(opts),
		Temperature:         openai.Float(opts.Temperature),
		MaxCompletionTokens: openai.Int(c.resolveMaxTokens(opts)),
	}

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.Endpoint))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api error: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Caller) resolveModel(opts model.CallOptions) string {
	if opts.Model != "" {
		return opts.Model
	}
	return c.opts.Model
}

func (c *Caller) resolveMaxTokens(opts model.CallOptions) int64 {
	if opts.MaxTokens > 0 {
		return int64(opts.MaxTokens)
	}
	return c.opts.MaxCompletionTokens
}

// buildMessages converts the pre-built conversation plus the system and
// user prompts into chat messages. Unknown roles are treated as user turns.
func buildMessages(opts model.CallOptions) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemPrompt))
	}
	for _, m := range opts.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	if opts.UserPrompt != "" {
		messages = append(messages, openai.UserMessage(opts.UserPrompt))
	}
	return messages
}
