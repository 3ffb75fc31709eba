package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/julianstephens/stampet/internal/logger"
)

// S3Config holds configuration for the S3 mirror
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services (MinIO, R2, ...)
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Mirror stores each user's document as users/<id>/game-state.json
type S3Mirror struct {
	client s3API
	bucket string
}

// NewS3Mirror creates an S3-compatible mirror
func NewS3Mirror(ctx context.Context, cfg S3Config) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	logger.Debug("initialized S3 mirror", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &S3Mirror{client: client, bucket: cfg.Bucket}, nil
}

func (m *S3Mirror) Name() string { return "s3" }

func (m *S3Mirror) Push(ctx context.Context, userID string, doc Document) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(ObjectKey(userID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (m *S3Mirror) Pull(ctx context.Context, userID string) (Document, error) {
	if err := ValidateUserID(userID); err != nil {
		return Document{}, err
	}

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(ObjectKey(userID)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, ObjectKey(userID))
		}
		return Document{}, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read S3 object: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse remote document: %w", err)
	}
	return doc, nil
}

func (m *S3Mirror) Close(context.Context) error { return nil }
