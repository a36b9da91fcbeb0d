// Package gemini implements the chat backend on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/koscakluka/ema-kiosk/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 150
)

var ErrEmptyResponse = errors.New("gemini returned an empty response")

type Client struct {
	client *genai.Client

	model       string
	temperature float32
	maxTokens   int32
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) { c.temperature = float32(temperature) }
}

func WithMaxTokens(maxTokens int) ClientOption {
	return func(c *Client) {
		if maxTokens > 0 {
			c.maxTokens = int32(maxTokens)
		}
	}
}

func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	c := &Client{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) InitialQuestion(ctx context.Context, theme string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(llms.OpeningPrompt, genai.RoleUser)}
	return c.generate(ctx, "initial question", theme, contents)
}

func (c *Client) Reply(ctx context.Context, userText, theme string, history []llms.Message) (string, error) {
	return c.generate(ctx, "reply", theme, toContents(history, userText))
}

func (c *Client) generate(ctx context.Context, operation, theme string, contents []*genai.Content) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini "+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(contents)),
	)

	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llms.SystemPrompt(theme), genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   c.maxTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		err = fmt.Errorf("gemini %s: %w", operation, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "generate content failed", "operation", operation, "error", err)
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.RecordError(ErrEmptyResponse)
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toContents maps the conversation onto Gemini roles; the system prompt
// travels separately as the system instruction.
func toContents(history []llms.Message, userText string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, message := range history {
		switch message.Role {
		case llms.RoleSystem:
			continue
		case llms.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleUser))
		}
	}
	return append(contents, genai.NewContentFromText(userText, genai.RoleUser))
}
