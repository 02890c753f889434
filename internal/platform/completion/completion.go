// Package completion wraps chat-completion generation behind a small
// interface so answer assembly and entity extraction can be tested with
// fakes.
package completion

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyPrompt is returned when there is nothing to send to the model.
var ErrEmptyPrompt = errors.New("cannot complete empty prompt")

// Generator produces a completion for a prompt. system may be empty.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator calls the OpenAI chat completions API.
type OpenAIGenerator struct {
	api         chatAPI
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAI builds a generator with conservative decoding settings suited to
// grounded question answering.
func NewOpenAI(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		api:         openai.NewClient(apiKey),
		model:       model,
		temperature: 0.2,
		maxTokens:   1024,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response for model %s contained no choices", g.model)
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) Model() string { return g.model }
