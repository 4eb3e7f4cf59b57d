// Package anthropic adapts the Anthropic Messages API to the
// generator.ContentGenerator interface (non-streaming).
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agenthive/generator"
)

// Options configure the Anthropic generator adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Generator wraps the Anthropic Messages API behind ContentGenerator.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

// New creates a generator using the official client.
func New(optFns ...func(o *Options)) *Generator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Generator{client: &client, opts: opts}
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Generator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

// Generate performs one Messages API call. Confidence is derived from the
// stop reason: a natural end turn is high confidence, truncation is low.
func (g *Generator) Generate(ctx context.Context, req generator.Request) (generator.Generation, error) {
	var messages []anthropic.MessageParam
	for _, turn := range req.History {
		if turn.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Input)))

	params := anthropic.MessageNewParams{
		Model:       g.opts.Model,
		Messages:    messages,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: anthropic.Float(g.opts.Temperature),
	}
	if sys := systemPrompt(req); sys != "" {
		params.System = []anthropic.TextBlockParam{{Text: sys}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return generator.Generation{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	confidence := 0.9
	if resp.StopReason != anthropic.StopReasonEndTurn {
		confidence = 0.6
	}
	return generator.Generation{Text: b.String(), Confidence: confidence}, nil
}

func systemPrompt(req generator.Request) string {
	var b strings.Builder
	if req.Profile != nil {
		fmt.Fprintf(&b, "You are %s.", req.Profile.Name)
		if len(req.Profile.Capabilities) > 0 {
			fmt.Fprintf(&b, " Your capabilities: %s.", strings.Join(req.Profile.Capabilities, ", "))
		}
		if req.Profile.Personality.Tone != "" {
			fmt.Fprintf(&b, " Respond in a %s tone.", req.Profile.Personality.Tone)
		}
	}
	if req.Phase != "" {
		fmt.Fprintf(&b, "\nConversation phase: %s.", req.Phase)
	}
	if len(req.Memories) > 0 {
		b.WriteString("\nRelevant context from memory:\n")
		for _, m := range req.Memories {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	return b.String()
}
