// Package anthropic adapts the Anthropic Claude API to the llm.Provider
// contract.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/BatAIInc/bat-ai-core/pkg/llm"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// Provider sends chat requests to the Anthropic messages API.
type Provider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

type settings struct {
	model      string
	maxTokens  int64
	clientOpts []option.RequestOption
}

// Option configures the Provider.
type Option func(*settings)

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(tokens int64) Option {
	return func(s *settings) {
		if tokens > 0 {
			s.maxTokens = tokens
		}
	}
}

// WithBaseURL points the client at a proxy or compatible endpoint.
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.clientOpts = append(s.clientOpts, option.WithBaseURL(url))
	}
}

// WithAPIKey sets an explicit API key instead of ANTHROPIC_API_KEY.
func WithAPIKey(apiKey string) Option {
	return func(s *settings) {
		s.clientOpts = append(s.clientOpts, option.WithAPIKey(apiKey))
	}
}

// New creates a Provider. Without WithAPIKey the SDK reads
// ANTHROPIC_API_KEY from the environment.
func New(opts ...Option) *Provider {
	s := settings{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Provider{
		client:    anthropic.NewClient(s.clientOpts...),
		model:     s.model,
		maxTokens: s.maxTokens,
	}
}

// NewWithAPIKey creates a Provider with an explicit API key.
func NewWithAPIKey(apiKey string, opts ...Option) *Provider {
	return New(append([]Option{WithAPIKey(apiKey)}, opts...)...)
}

// Chat implements llm.Provider.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	system, messages := splitMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: p.maxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: system}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	var content string
	for _, block := range message.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &llm.ChatResponse{
		Content: content,
		Usage: llm.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}

// splitMessages lifts the system prompt out of the message list; the
// Anthropic API carries it as a separate parameter.
func splitMessages(in []llm.Message) (string, []anthropic.MessageParam) {
	var system string
	out := make([]anthropic.MessageParam, 0, len(in))
	for _, msg := range in {
		switch msg.Role {
		case llm.RoleSystem:
			system = msg.Content
		case llm.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return system, out
}

var _ llm.Provider = (*Provider)(nil)
