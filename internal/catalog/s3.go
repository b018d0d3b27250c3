package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes CATALOG_PATH values that live in a bucket.
const S3Scheme = "s3://"

// S3API is the subset of the S3 client used to fetch reference data.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsS3URI reports whether path names an object as s3://bucket/key.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, S3Scheme)
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("catalog: not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("catalog: s3 uri needs bucket and key: %q", uri)
	}
	return bucket, key, nil
}

// LoadS3 reads reference data from an S3 object, so every replica serves the
// same catalog without baking it into the image.
func LoadS3(ctx context.Context, client S3API, uri string) (*Catalog, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", uri, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", uri, err)
	}
	return parse(data, uri)
}
