// Package anthropic provides a model.Caller backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/agentgraph-dev/agentgraph/model"
)

// Options configures the Anthropic caller (default model id, max tokens,
// API key). Per-call CallOptions override these defaults.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Caller wraps the Anthropic Messages API behind the model.Caller interface.
type Caller struct {
	client *anthropic.Client
	opts   Options
}

var _ model.Caller = (*Caller)(nil)

// NewCaller creates a new Anthropic caller using the official client.
func NewCaller(optFns ...func(o *Options)) *Caller {
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

	return &Caller{client: &client, opts: opts}
}

// NewCallerFromClient creates a new Anthropic caller from an existing client.
func NewCallerFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Caller {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Caller{client: client, opts: opts}
}

// Call implements model.Caller. Non-success responses surface as an error
// wrapping the SDK error, which embeds the HTTP status and response body.
func (c *Caller) Call(ctx context.Context, opts model.CallOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.resolveModel(opts),
		Messages:  buildMessages(opts),
		MaxTokens: c.resolveMaxTokens(opts),
	}
	params.Temperature = anthropic.Float(opts.Temperature)

	if system := buildSystem(opts); len(system) > 0 {
		params.System = system
	}

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.Endpoint))
	}

	resp, err := c.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

func (c *Caller) resolveModel(opts model.CallOptions) anthropic.Model {
	if opts.Model != "" {
		return anthropic.Model(opts.Model)
	}
	return c.opts.Model
}

func (c *Caller) resolveMaxTokens(opts model.CallOptions) int64 {
	if opts.MaxTokens > 0 {
		return int64(opts.MaxTokens)
	}
	return c.opts.MaxTokens
}

// buildSystem collects the system prompt plus any system-role messages.
func buildSystem(opts model.CallOptions) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	if opts.SystemPrompt != "" {
		blocks = append(blocks, anthropic.TextBlockParam{Text: opts.SystemPrompt})
	}
	for _, m := range opts.Messages {
		if m.Role == "system" && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// buildMessages converts the pre-built conversation plus the user prompt
// into Anthropic message params. Unknown roles are treated as user turns.
func buildMessages(opts model.CallOptions) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, m := range opts.Messages {
		switch m.Role {
		case "system":
			continue // handled by buildSystem
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if opts.UserPrompt != "" {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(opts.UserPrompt)))
	}
	return messages
}
