package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures the S3 history backend. Credentials come from the
// standard AWS chain.
type S3Options struct {
	Region       string
	Bucket       string
	Key          string
	UsePathStyle bool
}

type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend stores the JSON snapshot as one object; a PUT replaces it whole.
type S3Backend struct {
	client s3API
	bucket string
	key    string
}

func NewS3Backend(ctx context.Context, opts S3Options) (*S3Backend, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
	})
	return &S3Backend{client: client, bucket: opts.Bucket, key: opts.Key}, nil
}

func (sb *S3Backend) Load(ctx context.Context) ([]Record, error) {
	out, err := sb.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(sb.bucket),
		Key:    aws.String(sb.key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", sb.bucket, sb.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", sb.bucket, sb.key, err)
	}
	return decodeRecords(data)
}

func (sb *S3Backend) Save(ctx context.Context, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	_, err = sb.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(sb.bucket),
		Key:         aws.String(sb.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", sb.bucket, sb.key, err)
	}
	return nil
}
