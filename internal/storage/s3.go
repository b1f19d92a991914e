package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"loan-backend/internal/config"
)

// ObjectGetter is the part of the s3 client used to download seed files
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SeedFetcher opens seed files from the local filesystem or from an
// S3-compatible bucket (s3://bucket/key). The S3 client is only built the
// first time an s3:// location is opened.
type SeedFetcher struct {
	cfg *config.Config

	once      sync.Once
	client    ObjectGetter
	clientErr error
}

func NewSeedFetcher(cfg *config.Config) *SeedFetcher {
	return &SeedFetcher{cfg: cfg}
}

// NewSeedFetcherWithClient uses a prebuilt client for s3:// locations
func NewSeedFetcherWithClient(client ObjectGetter) *SeedFetcher {
	f := &SeedFetcher{client: client}
	f.once.Do(func() {})
	return f
}

// Open returns a reader for location. The caller closes it.
func (f *SeedFetcher) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "s3://") {
		file, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open seed file %s: %w", location, err)
		}
		return file, nil
	}

	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	client, err := f.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	return result.Body, nil
}

func (f *SeedFetcher) s3Client(ctx context.Context) (ObjectGetter, error) {
	f.once.Do(func() {
		f.client, f.clientErr = newS3Client(ctx, f.cfg)
	})
	return f.client, f.clientErr
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ParseS3URL splits s3://bucket/path/to/key into bucket and key
func ParseS3URL(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid storage url %s: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid storage url %s: want s3://bucket/key", location)
	}
	return u.Host, key, nil
}
