// Package s3 mirrors finished backup documents to an S3-compatible bucket.
// It works with AWS S3 as well as MinIO and friends via a custom endpoint.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/hoshizora/mirovault/internal/config"
)

// Archive uploads backup documents to one bucket under an optional prefix.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// New builds the S3 client and verifies the bucket exists. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies.
func New(ctx context.Context, cfg config.S3Config, log zerolog.Logger) (*Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3.New: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	a := &Archive{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("s3.New: %w", err)
	}

	return a, nil
}

// ensureBucket fails fast when the configured bucket is missing, so a typo
// surfaces at startup rather than after the first board was fetched.
func (a *Archive) ensureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &a.bucket})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return fmt.Errorf("bucket %s does not exist", a.bucket)
		}
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Store uploads one document and returns its object URL.
func (a *Archive) Store(ctx context.Context, name string, data []byte) (string, error) {
	key := a.prefix + name

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3.Archive.Store: put %s: %w", key, err)
	}

	a.log.Debug().Str("bucket", a.bucket).Str("key", key).Int("bytes", len(data)).Msg("archive uploaded")
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
