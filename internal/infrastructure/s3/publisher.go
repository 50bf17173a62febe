package s3

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Publisher uploads run artifacts under runs/<run id>/ in one bucket.
type Publisher struct {
	api    PutObjectAPI
	bucket string
	region string
	prefix string
}

// NewPublisher loads the default AWS configuration for region.
func NewPublisher(ctx context.Context, bucket, region string) (*Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewPublisherWithClient(awss3.NewFromConfig(cfg), bucket, region), nil
}

// NewPublisherWithClient wraps an existing S3 client.
func NewPublisherWithClient(api PutObjectAPI, bucket, region string) *Publisher {
	return &Publisher{api: api, bucket: bucket, region: region, prefix: "runs"}
}

// Key is the object key used for a file of a run.
func (p *Publisher) Key(runID, file string) string {
	return path.Join(p.prefix, runID, filepath.Base(file))
}

// Publish uploads the file at localPath and returns its public URL.
func (p *Publisher) Publish(ctx context.Context, runID, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}

	key := p.Key(runID, localPath)
	_, err = p.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key), nil
}

func contentType(file string) string {
	ext := strings.ToLower(filepath.Ext(file))
	switch ext {
	case ".geojson":
		return "application/geo+json"
	case ".csv":
		return "text/csv"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
