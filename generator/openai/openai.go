// Package openai adapts the OpenAI Chat Completions API to the
// generator.ContentGenerator interface. Only the non-streaming path is used;
// the coordination core consumes exactly one generation per turn.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agenthive/generator"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI generator adapter.
type Options struct {
	Model               openai.ChatModel
	Temperature         float64
	MaxCompletionTokens int64
}

// Generator wraps the OpenAI Chat Completions API behind ContentGenerator.
type Generator struct {
	client *openai.Client
	opts   Options
}

// New creates a generator using the default client (API key from env).
func New(optFns ...func(o *Options)) *Generator {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate performs one chat completion. Confidence is derived from the
// finish reason: a clean stop is high confidence, truncation is low.
func (g *Generator) Generate(ctx context.Context, req generator.Request) (generator.Generation, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt(req)),
	}
	for _, turn := range req.History {
		if turn.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(turn.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(turn.Content))
	}
	messages = append(messages, openai.UserMessage(req.Input))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               g.opts.Model,
		Temperature:         openai.Float(g.opts.Temperature),
		MaxCompletionTokens: openai.Int(g.opts.MaxCompletionTokens),
	})
	if err != nil {
		return generator.Generation{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return generator.Generation{}, fmt.Errorf("no choices returned")
	}
	ch0 := resp.Choices[0]
	confidence := 0.9
	if ch0.FinishReason != "stop" {
		confidence = 0.6
	}
	return generator.Generation{Text: ch0.Message.Content, Confidence: confidence}, nil
}

// systemPrompt renders the agent persona plus the flow's working context.
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
	if req.Intent != "" {
		fmt.Fprintf(&b, " Detected user intent: %s.", req.Intent)
	}
	if len(req.Memories) > 0 {
		b.WriteString("\nRelevant context from memory:\n")
		for _, m := range req.Memories {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	if len(req.Tools) > 0 {
		b.WriteString("\nTools available to you:\n")
		for _, t := range req.Tools {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
		}
	}
	return b.String()
}
