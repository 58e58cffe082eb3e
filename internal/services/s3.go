package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"skillbox/internal/config"
	"skillbox/internal/utils/logger"
)

// Ensure ObjectStore satisfies the download minter.
var _ ReferenceMinter = (*ObjectStore)(nil)

// ObjectStore is the S3-compatible backend holding course content. Objects
// are private; the only way out is a pre-signed URL minted per authorized
// download.
type ObjectStore struct {
	client     *s3.Client
	bucketName string
	log        *logger.Logger
}

func NewObjectStore(c config.S3Config) (*ObjectStore, error) {
	log := logger.New("object_store")

	if c.AccessKey == "" || c.SecretKey == "" {
		return nil, log.Error("storage credentials are empty", fmt.Errorf("accessKey or secretKey is empty"))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("unable to load SDK config", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.%s", c.Region, c.Endpoint))
		}
	})

	// Verify credentials with a cheap call before accepting traffic.
	_, err = client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.BucketName),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, log.Error("failed to verify storage credentials", err)
	}

	log.Success("object store initialized (bucket %s)", c.BucketName)
	return &ObjectStore{client: client, bucketName: c.BucketName, log: log}, nil
}

// UploadCourseFile stores content under key. The key is chosen by the caller
// so the database record and the object agree.
func (s *ObjectStore) UploadCourseFile(ctx context.Context, content []byte, key, contentType string) error {
	s.log.Info("uploading %s (%d bytes)", key, len(content))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return s.log.Error("failed to upload object", err)
	}
	s.log.Success("uploaded %s", key)
	return nil
}

// MintDownloadReference issues a pre-signed GET URL for key, valid for ttl.
func (s *ObjectStore) MintDownloadReference(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	presignClient := s3.NewPresignClient(s.client)

	presigned, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, s.log.Error("failed to presign object", err)
	}
	return presigned.URL, time.Now().UTC().Add(ttl), nil
}

// DeleteObject removes a stored object. Called after its database record is
// gone; a failure here leaves an orphan object, never a dangling record.
func (s *ObjectStore) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.log.Error("failed to delete object", err)
	}
	return nil
}
