package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/hashicorp/go-hclog"

	"scangate/pkg/shared/config"
)

// S3Store uploads the report bundle to an S3 bucket. Credentials come from
// the standard AWS credential chain.
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger hclog.Logger
}

// NewS3Store builds a store for the bucket configured in the artifacts
// section. Region is taken from config, falling back to the AWS SDK default
// resolution when empty.
func NewS3Store(cfg config.S3Store, logger hclog.Logger) (*S3Store, error) {
	awsConfig := aws.Config{}
	if cfg.Region != "" {
		awsConfig.Region = aws.String(cfg.Region)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS session: %w", err)
	}

	return &S3Store{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// Name implements Store.
func (s *S3Store) Name() string { return "s3" }

// Save implements Store, uploading each artifact to
// s3://<bucket>/<prefix>/<bundleName>/<artifact>.
func (s *S3Store) Save(ctx context.Context, bundleName string, bundle []Artifact) error {
	for _, artifact := range bundle {
		key := path.Join(s.prefix, bundleName, artifact.Name)
		input := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(artifact.Body),
		}
		if contentType := mime.TypeByExtension(filepath.Ext(artifact.Name)); contentType != "" {
			input.ContentType = aws.String(contentType)
		}

		if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
			return fmt.Errorf("failed to upload artifact %q to bucket %q: %w", key, s.bucket, err)
		}
		s.logger.Debug("artifact uploaded", "bucket", s.bucket, "key", key)
	}
	s.logger.Info("report bundle uploaded to S3", "bucket", s.bucket, "bundle", bundleName, "artifacts", len(bundle))

	return nil
}
