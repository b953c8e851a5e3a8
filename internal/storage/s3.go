// Package storage implements the workflow's storage capability on
// S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"classgateway/internal/config"
	"classgateway/internal/logging"
)

type Store struct {
	s3Client *s3.Client
	bucket   *string
	endpoint string
}

func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	s3Cfg, err := s3config.LoadDefaultConfig(ctx,
		s3config.WithRegion(cfg.S3Region),
		s3config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKeyID,
				cfg.S3SecretAccessKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}
	s3Client := s3.NewFromConfig(s3Cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	s := &Store{
		s3Client: s3Client,
		bucket:   aws.String(cfg.S3Bucket),
		endpoint: strings.TrimSuffix(cfg.S3Endpoint, "/"),
	}
	if err := s.createBucket(ctx, cfg.S3Bucket); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateFile writes the payload under the owner's key prefix and returns the
// object key as the file id.
func (s *Store) CreateFile(ctx context.Context, ownerID, name, mimeType string, data []byte) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	key := ownerID + "/" + id.String() + strings.ToLower(path.Ext(name))

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      s.bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
		Metadata:    map[string]string{"filename": name},
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// ShareFile grants read access to anyone holding the object's link.
func (s *Store) ShareFile(ctx context.Context, fileID string) error {
	_, err := s.s3Client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: s.bucket,
		Key:    aws.String(fileID),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("share object %s: %w", fileID, err)
	}
	return nil
}

func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", fileID, err)
	}
	return nil
}

func (s *Store) ObjectURL(fileID string) string {
	return s.endpoint + "/" + *s.bucket + "/" + fileID
}

func (s *Store) createBucket(ctx context.Context, name string) error {
	_, err := s.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(name)})
	if err != nil {
		var opErr *awshttp.ResponseError
		if errors.As(err, &opErr) && opErr.HTTPStatusCode() == 409 {
			if logger, ok := logging.GetFromContext(ctx); ok {
				logger.Info(ctx, "Bucket already exists", zap.String("bucket", name))
			}
			return nil
		}
	}
	return err
}
