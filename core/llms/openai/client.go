// Package openai implements the chat backend on OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/koscakluka/ema-kiosk/core/llms"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 150
)

// ErrEmptyResponse is returned when the completion carries no text.
var ErrEmptyResponse = errors.New("openai returned an empty response")

type Client struct {
	client openai.Client

	model       string
	temperature float64
	maxTokens   int
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

func WithModel(model string) ClientOption {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

func WithTemperature(temperature float64) ClientOption {
	return func(o *clientOptions) { o.temperature = temperature }
}

func WithMaxTokens(maxTokens int) ClientOption {
	return func(o *clientOptions) {
		if maxTokens > 0 {
			o.maxTokens = maxTokens
		}
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	options := clientOptions{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		httpClient:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(&options)
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(options.httpClient),
		option.WithMaxRetries(0),
	}
	if options.baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(options.baseURL))
	}

	return &Client{
		client:      openai.NewClient(requestOptions...),
		model:       options.model,
		temperature: options.temperature,
		maxTokens:   options.maxTokens,
	}
}

// InitialQuestion asks for the opening question of a conversation about
// theme.
func (c *Client) InitialQuestion(ctx context.Context, theme string) (string, error) {
	messages := []llms.Message{
		{Role: llms.RoleSystem, Content: llms.SystemPrompt(theme)},
		{Role: llms.RoleUser, Content: llms.OpeningPrompt},
	}
	return c.complete(ctx, "initial question", messages)
}

// Reply answers userText given the prior conversation history.
func (c *Client) Reply(ctx context.Context, userText, theme string, history []llms.Message) (string, error) {
	return c.complete(ctx, "reply", llms.Conversation(theme, history, userText))
}

func (c *Client) complete(ctx context.Context, operation string, messages []llms.Message) (string, error) {
	ctx, span := tracer.Start(ctx, "openai "+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(messages)),
	)

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: param.NewOpt(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = fmt.Errorf("openai %s: %w", operation, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "chat completion failed", "operation", operation, "error", err)
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		span.RecordError(ErrEmptyResponse)
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toOpenAIMessages(messages []llms.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case llms.RoleSystem:
			converted = append(converted, openai.SystemMessage(message.Content))
		case llms.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(message.Content))
		default:
			converted = append(converted, openai.UserMessage(message.Content))
		}
	}
	return converted
}
