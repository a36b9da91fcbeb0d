package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const keyPrefix = "conversation/"

var ErrClosed = errors.New("archive store is closed")

type StoreOptions struct {
	Dir      string
	InMemory bool
}

// Store is the badger-backed outbox of records waiting for export.
type Store struct {
	db *badger.DB
}

func OpenStore(opts StoreOptions) (*Store, error) {
	badgerOptions := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{})
	if opts.InMemory || opts.Dir == "" {
		badgerOptions = badgerOptions.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Put(ctx context.Context, record Record) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	_, span := tracer.Start(ctx, "archive put")
	defer span.End()
	span.SetAttributes(attribute.String("archive.record_id", record.ID))

	value, err := msgpack.Marshal(record)
	if err != nil {
		err = fmt.Errorf("failed to encode record: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(record.storageKey(), value)
	}); err != nil {
		err = fmt.Errorf("failed to store record: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Pending returns every stored record, oldest first.
func (s *Store) Pending(ctx context.Context) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}

	_, span := tracer.Start(ctx, "archive pending")
	defer span.End()

	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			var record Record
			if err := msgpack.Unmarshal(value, &record); err != nil {
				logger.WarnContext(ctx, "skipping undecodable archive record", "key", string(item.Key()), "error", err)
				continue
			}
			record.key = item.KeyCopy(nil)
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed to list records: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("archive.pending", len(records)))
	return records, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, records []Record) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	_, span := tracer.Start(ctx, "archive delete")
	defer span.End()
	span.SetAttributes(attribute.Int("archive.deleted", len(records)))

	batch := s.db.NewWriteBatch()
	defer batch.Cancel()
	for _, record := range records {
		if err := batch.Delete(record.storageKey()); err != nil {
			err = fmt.Errorf("failed to delete record %s: %w", record.ID, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	if err := batch.Flush(); err != nil {
		err = fmt.Errorf("failed to flush deletes: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// badgerLogger routes badger's own diagnostics into the package logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(string, ...any) {}

func (badgerLogger) Debugf(string, ...any) {}
