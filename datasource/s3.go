package datasource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// S3Source serves domain mappings from Amazon S3 or a compatible object
// store, one object per label under a common prefix. The object body is the
// resolved value.
type S3Source struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Source creates an S3 data source. Without credentials the bucket is
// assumed to be publicly readable.
func NewS3Source(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Source, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	} else {
		cfg.Credentials = credentials.AnonymousCredentials
		log.Debug("No S3 credentials provided, bucket assumed to be public")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Source{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      strings.TrimSuffix(prefix, "/"),
		log:         log,
		locationURI: uri,
	}, nil
}

// Lookup fetches the object for the label and returns its body.
func (s *S3Source) Lookup(ctx context.Context, label string) (string, error) {
	key := path.Join(s.prefix, label)

	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return "", interfaces.ErrDomainNotFound
		}
		s.log.Warn("S3 lookup failed",
			slog.String("bucket", s.bucketName),
			slog.String("key", key),
			"err", err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	value := strings.TrimSpace(string(body))
	if value == "" {
		return "", fmt.Errorf("%w: empty object for %q", interfaces.ErrCorruptMapping, label)
	}
	return value, nil
}

// Available checks bucket reachability with a HEAD request.
func (s *S3Source) Available(ctx context.Context) bool {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		s.log.Debug("S3 data source unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this data source.
func (s *S3Source) Name() string {
	return fmt.Sprintf("s3-%s", s.bucketName)
}

// LocationURI returns the URI this data source was created from.
func (s *S3Source) LocationURI() string {
	return s.locationURI
}
