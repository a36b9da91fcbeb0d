package commands

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/koscakluka/ema-kiosk/core/archive"
	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/llms/gemini"
	"github.com/koscakluka/ema-kiosk/core/llms/openai"
	"github.com/koscakluka/ema-kiosk/internal/config"
)

// newChatBackend returns nil when no provider is configured; the chat then
// falls back to the theme question and scripted lines.
func newChatBackend(ctx context.Context, cfg config.ChatConfig) (chat.Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, nil
		}
		opts := []openai.ClientOption{
			openai.WithModel(cfg.Model),
			openai.WithTemperature(cfg.Temperature),
			openai.WithMaxTokens(cfg.MaxTokens),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.NewClient(cfg.APIKey, opts...), nil

	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, nil
		}
		client, err := gemini.NewClient(ctx, cfg.APIKey,
			gemini.WithModel(cfg.Model),
			gemini.WithTemperature(cfg.Temperature),
			gemini.WithMaxTokens(cfg.MaxTokens),
		)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client, nil

	default:
		return nil, nil
	}
}

type archiveStack struct {
	store   *archive.Store
	batcher *archive.Batcher
}

func (a *archiveStack) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func openArchive(cfg config.ArchiveConfig) (*archiveStack, error) {
	store, err := archive.OpenStore(archive.StoreOptions{Dir: cfg.Dir, InMemory: cfg.InMemory})
	if err != nil {
		return nil, err
	}

	var exporter archive.Exporter
	if cfg.S3.Enabled() {
		exporter = archive.NewS3Exporter(newS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.Prefix)
	}

	return &archiveStack{
		store:   store,
		batcher: archive.NewBatcher(store, exporter, cfg.BatchSize),
	}, nil
}

func newS3Client(cfg config.S3Config) *s3.Client {
	options := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		options.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		)
	}
	return s3.New(options)
}
