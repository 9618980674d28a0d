package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Client uploads review images to an S3-compatible bucket and hands back a
// public URL per object.
type S3Client struct {
	client    *s3.Client
	bucket    string
	cdnDomain string // DigitalOcean CDN domain for faster downloads
}

// NewS3Client creates a new S3 client configured for DigitalOcean Spaces.
func NewS3Client(endpoint, region, bucket, accessKeyID, secretAccessKey string) (*S3Client, error) {
	// Generate CDN domain from bucket and region
	cdnDomain := fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com", bucket, region)

	// Configure custom resolver for DigitalOcean Spaces
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested")
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, secretAccessKey, "",
		)),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true // Required for DigitalOcean Spaces
	})

	return &S3Client{
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

// Upload stores one image under a generated key and returns its public URL.
// Objects are public-read: the URL goes straight into review documents and
// is served to any authenticated client.
func (s *S3Client) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = guessContentType(filename)
	}
	key := fmt.Sprintf("reviews/%s%s", uuid.New().String(), filepath.Ext(filename))

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}

	if _, err := s.client.PutObject(ctx, putInput); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	return fmt.Sprintf("%s/%s", s.cdnDomain, key), nil
}

// guessContentType returns the content type for an image file extension.
func guessContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
