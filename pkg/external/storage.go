package external

import (
	"context"
	"fmt"
	"time"

	appcfg "github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DocumentStorage resolves a stored lease-document reference into a
// time-limited download URL.
type DocumentStorage interface {
	PresignDownload(ctx context.Context, key string) (url string, err error)
}

// S3DocumentStorage serves lease documents from an S3-compatible bucket
// (AWS or MinIO) via presigned GET URLs.
type S3DocumentStorage struct {
	bucket   string
	ttl      time.Duration
	region   string
	endpoint string
	access   string
	secret   string
}

func NewS3DocumentStorage(cfg *appcfg.Config) *S3DocumentStorage {
	return &S3DocumentStorage{
		bucket:   cfg.S3Bucket,
		ttl:      cfg.DocumentURLTTL,
		region:   cfg.S3Region,
		endpoint: cfg.S3Endpoint,
		access:   cfg.S3AccessKey,
		secret:   cfg.S3SecretKey,
	}
}

func (s *S3DocumentStorage) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.access, s.secret, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
		}
	})
	return s3.NewPresignClient(client), nil
}

func (s *S3DocumentStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	presign, err := s.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build presign client: %w", err)
	}
	req, err := presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign document download: %w", err)
	}
	return req.URL, nil
}

// PassthroughStorage returns the stored reference as-is; used when no
// bucket is configured and the document collaborator already returns a
// fetchable URL.
type PassthroughStorage struct{}

func (PassthroughStorage) PresignDownload(_ context.Context, key string) (string, error) {
	return key, nil
}
