package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// S3Client is the subset of the S3 API the exporter needs. *s3.Client
// satisfies it.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter uploads batches of records as one JSON document per batch.
type S3Exporter struct {
	client S3Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Exporter(client S3Client, bucket, prefix string) *S3Exporter {
	return &S3Exporter{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (e *S3Exporter) objectKey() string {
	name := fmt.Sprintf("conversations_%s_%s.json", e.now().UTC().Format("2006-01-02"), uuid.NewString())
	if e.prefix == "" {
		return name
	}
	return e.prefix + "/" + name
}

// Export uploads records and returns the object key written.
func (e *S3Exporter) Export(ctx context.Context, records []Record) (string, error) {
	ctx, span := tracer.Start(ctx, "archive export")
	defer span.End()

	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		err = fmt.Errorf("failed to encode batch: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	key := e.objectKey()
	span.SetAttributes(
		attribute.String("archive.bucket", e.bucket),
		attribute.String("archive.key", key),
		attribute.Int("archive.records", len(records)),
	)

	if _, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		err = fmt.Errorf("failed to upload batch to s3://%s/%s: %w", e.bucket, key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return key, nil
}
