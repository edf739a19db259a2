package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider covers any OpenAI-compatible chat-completion API.
type OpenAIProvider struct {
	name   string
	model  string
	stream bool
	client *openai.Client
}

func NewOpenAIProvider(name, baseURL, apiKey, model string, stream bool) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if strings.TrimSpace(name) == "" {
		name = "openai"
	}
	return &OpenAIProvider{
		name:   name,
		model:  model,
		stream: stream,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: o.name, Model: o.model}
	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Stream: o.stream,
	}
	if o.stream {
		text, err := o.generateStream(ctx, chatReq)
		if err != nil {
			return GenerateResponse{}, info, err
		}
		return GenerateResponse{Text: text}, info, nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("%s chat completion failed: %w", o.name, err)
	}
	if len(resp.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("%s returned empty choices", o.name)
	}
	return GenerateResponse{Text: resp.Choices[0].Message.Content}, info, nil
}

func (o *OpenAIProvider) generateStream(ctx context.Context, chatReq openai.ChatCompletionRequest) (string, error) {
	stream, err := o.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%s chat completion stream failed: %w", o.name, err)
	}
	defer stream.Close()

	var out strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return out.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("%s chat completion stream recv: %w", o.name, err)
		}
		if len(chunk.Choices) > 0 {
			out.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
}
