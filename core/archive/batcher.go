package archive

import (
	"context"
	"fmt"
	"sync"

	"github.com/koscakluka/ema-kiosk/core/chat"
)

const DefaultBatchSize = 10

// Exporter ships a batch of records somewhere durable.
type Exporter interface {
	Export(ctx context.Context, records []Record) (string, error)
}

// Batcher stores transcripts and exports them once enough have piled up.
// Without an exporter it only stores.
type Batcher struct {
	store     *Store
	exporter  Exporter
	batchSize int

	mu sync.Mutex
}

func NewBatcher(store *Store, exporter Exporter, batchSize int) *Batcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Batcher{store: store, exporter: exporter, batchSize: batchSize}
}

// Save stores the transcript and exports the outbox when it reached the
// batch size. A failed export leaves the records in place for the next
// attempt and is not reported as a save failure.
func (b *Batcher) Save(ctx context.Context, transcript chat.Transcript) error {
	record, err := NewRecord(transcript)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Put(ctx, record); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	if b.exporter == nil {
		return nil
	}

	count, err := b.store.Count(ctx)
	if err != nil {
		return nil
	}
	if count >= b.batchSize {
		if _, err := b.flushLocked(ctx); err != nil {
			logger.WarnContext(ctx, "batch export failed, keeping records for retry", "pending", count, "error", err)
		}
	}
	return nil
}

// Flush exports every pending record regardless of the batch size and
// returns how many were exported.
func (b *Batcher) Flush(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(ctx)
}

func (b *Batcher) flushLocked(ctx context.Context) (int, error) {
	if b.exporter == nil {
		return 0, fmt.Errorf("no exporter configured")
	}

	records, err := b.store.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	key, err := b.exporter.Export(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := b.store.Delete(ctx, records); err != nil {
		return 0, fmt.Errorf("exported to %s but failed to clear outbox: %w", key, err)
	}

	logger.InfoContext(ctx, "exported conversation batch", "key", key, "records", len(records))
	return len(records), nil
}
