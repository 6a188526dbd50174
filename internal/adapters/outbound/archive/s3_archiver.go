package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader is the subset of manager.Uploader the archiver needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archiver implements domain.LogArchiver. Logs are stored at
//
//	s3://<bucket>/<prefix>/deployments/YYYY/MM/DD/<runID>.json
type S3Archiver struct {
	bucket   string
	prefix   string
	uploader Uploader
}

// NewS3Archiver creates an archiver using the default AWS credential chain
// (AWS_REGION, AWS_PROFILE, AWS_ACCESS_KEY_ID/SECRET etc.).
func NewS3Archiver(ctx context.Context, cfg domain.ArchiveConfig) (*S3Archiver, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithUploader(cfg, manager.NewUploader(s3.NewFromConfig(awsCfg))), nil
}

// NewWithUploader creates an archiver around an existing uploader.
func NewWithUploader(cfg domain.ArchiveConfig, uploader Uploader) *S3Archiver {
	return &S3Archiver{bucket: cfg.S3Bucket, prefix: cfg.S3Prefix, uploader: uploader}
}

// Key returns the object key for a deployment log.
func (s *S3Archiver) Key(log *domain.DeploymentLog) string {
	year, month, day := log.StartedAt.UTC().Date()
	return path.Join(s.prefix, "deployments",
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", int(month)),
		fmt.Sprintf("%02d", day),
		fmt.Sprintf("%s.json", log.RunID),
	)
}

// Archive uploads the log as JSON and returns its s3:// location.
func (s *S3Archiver) Archive(ctx context.Context, log *domain.DeploymentLog) (string, error) {
	if log == nil {
		return "", fmt.Errorf("nil deployment log")
	}
	body, err := json.Marshal(log)
	if err != nil {
		return "", fmt.Errorf("encode deployment log: %w", err)
	}

	key := s.Key(log)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String("application/json"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
