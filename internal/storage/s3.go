package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// DefaultS3Key is the object key used when S3Config.Key is empty.
const DefaultS3Key = "vacancies.json"

// S3Config holds the configuration for S3 document storage.
type S3Config struct {
	Bucket          string
	Region          string
	Key             string // Optional: object key, defaults to DefaultS3Key
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// Compile-time check that S3DocumentStore implements DocumentStore.
var _ DocumentStore = (*S3DocumentStore)(nil)

// S3DocumentStore implements DocumentStore with a single S3 object.
// The object body is byte-identical to what JSONFileStore writes.
type S3DocumentStore struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3DocumentStore creates a new S3DocumentStore instance.
func NewS3DocumentStore(cfg S3Config) (*S3DocumentStore, error) {
	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	key := cfg.Key
	if key == "" {
		key = DefaultS3Key
	}

	return &S3DocumentStore{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
		key:    key,
	}, nil
}

// Location returns the s3:// URI of the document.
func (s *S3DocumentStore) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Load downloads and parses the document object.
func (s *S3DocumentStore) Load(ctx context.Context) (vacancy.Collection, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", classifyS3Error(err))
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return Decode(data)
}

// Save uploads records, replacing the object.
func (s *S3DocumentStore) Save(ctx context.Context, records vacancy.Collection) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put document: %w", classifyS3Error(err))
	}

	return nil
}

// Delete removes the object. S3 deletes succeed for missing keys, so the
// object is checked first to report ErrNotFound.
func (s *S3DocumentStore) Delete(ctx context.Context) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return fmt.Errorf("head document: %w", classifyS3Error(err))
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", classifyS3Error(err))
	}

	return nil
}

// classifyS3Error maps S3 API failures onto the package sentinels.
func classifyS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %w", ErrPermission, err)
		}
	}

	// HEAD responses carry no error body, so fall back to the status code.
	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		switch statusErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrPermission, err)
		}
	}

	return err
}
