// services/feed_archive.go
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FeedArchiveService stores raw wholesale feed snapshots in an S3-compatible
// Spaces bucket, one object per feed day, for replay and audit.
type FeedArchiveService struct {
	client *s3.Client
	bucket string
	region string
	root   string
	logger *slog.Logger
}

func NewFeedArchiveService(spacesKey, spacesSecret, region, bucket, root string) *FeedArchiveService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &FeedArchiveService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		root:   strings.Trim(root, "/"),
		logger: slog.With(slog.String("type", "feed"), slog.String("service", "feed_archive")),
	}
}

// Store uploads one day's raw feed body. Re-running a day overwrites the
// object, matching the feed's own daily replacement semantics.
func (s *FeedArchiveService) Store(ctx context.Context, day time.Time, r io.Reader) error {
	key := fmt.Sprintf("%s/%s.json", s.root, day.UTC().Format("2006-01-02"))
	if s.root == "" {
		key = strings.TrimPrefix(key, "/")
	}

	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        r,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive feed snapshot %s: %w", key, err)
	}

	s.logger.Info("Feed snapshot archived",
		slog.String("key", key),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *FeedArchiveService) GetBucket() string { return s.bucket }

func (s *FeedArchiveService) GetRegion() string { return s.region }
