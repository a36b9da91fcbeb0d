package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// setupLogging routes every package logger into path as JSON lines, so the
// terminal stays free for the renderer. An empty path discards logs.
func setupLogging(path string) (func(context.Context) error, error) {
	var (
		writer io.Writer = io.Discard
		file   *os.File
	)
	if path != "" {
		var err error
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writer = file
	}

	exporter, err := stdoutlog.New(stdoutlog.WithWriter(writer))
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("create log exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)))
	global.SetLoggerProvider(provider)

	return func(ctx context.Context) error {
		err := provider.Shutdown(ctx)
		if file != nil {
			err = errors.Join(err, file.Close())
		}
		return err
	}, nil
}
