// Package storage archives verification evidence in S3-compatible object
// storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"postproof/pkg/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 client.
type S3Config struct {
	Region        string // default us-east-1
	Endpoint      string // S3-compatible endpoint (MinIO, R2); enables path-style addressing
	AccessKey     string // optional, default credential chain when empty
	SecretKey     string
	PublicBaseURL string // optional CDN base for public object URLs
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 stores objects in S3-compatible storage.
type S3 struct {
	client objectAPI
	cfg    S3Config
}

// NewS3 creates an S3 client. No request is made until the first Put.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	log.GlobalInfo("evidence storage initialized", "region", cfg.Region, "endpoint", cfg.Endpoint)

	return &S3{client: s3.NewFromConfig(awsCfg, s3Opts...), cfg: cfg}, nil
}

// Put uploads data and returns the object's public URL.
func (s *S3) Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	key := strings.TrimPrefix(path, "/")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	log.GlobalDebugCtx(ctx, "object stored", "bucket", bucket, "key", key, "size", len(data))
	return s.PublicURL(bucket, key), nil
}

// Get downloads an object.
func (s *S3) Get(ctx context.Context, bucket, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// PublicURL is where an object can be fetched without credentials.
func (s *S3) PublicURL(bucket, path string) string {
	key := strings.TrimPrefix(path, "/")
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.cfg.Region, key)
	}
}
