package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Archiver implements Archiver against an S3 bucket.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed archiver.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-archiver").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 archiver initialised")

	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Store uploads the file under a timestamped key.
func (a *s3Archiver) Store(ctx context.Context, filename string, data []byte) error {
	key := fmt.Sprintf("%s%s_%s", a.prefix, time.Now().UTC().Format("20060102T150405"), filename)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to archive upload")
		return fmt.Errorf("failed to archive upload (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("upload archived")

	return nil
}
