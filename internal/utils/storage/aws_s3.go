package storage

import (
	"context"
	"errors"
	"io"

	"eatinator/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

type (
	// AwsS3 is the blob-store surface the image service depends on. It is
	// satisfied by any S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
	AwsS3 interface {
		PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
		GetObject(ctx context.Context, key string) (io.ReadCloser, string, error)
		ObjectExists(ctx context.Context, key string) (bool, error)
		DeleteObject(ctx context.Context, key string) error
	}

	awsS3 struct {
		client *s3.Client
		bucket string
	}
)

// ErrObjectNotFound is returned by GetObject when the key has no blob.
var ErrObjectNotFound = errors.New("object not found")

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("S3_REGION")
	endpoint := utils.GetConfig("S3_ENDPOINT")

	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("S3_ACCESS_KEY"),
			utils.GetConfig("S3_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load object storage configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// R2 and MinIO expect path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &awsS3{
		client: client,
		bucket: utils.GetConfig("S3_BUCKET"),
	}
}

func (s *awsS3) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (s *awsS3) GetObject(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

func (s *awsS3) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *awsS3) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
