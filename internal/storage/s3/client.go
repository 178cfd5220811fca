package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken  = ""
	deleteFolderBatchSize = 1000

	errFailedCreateAWSSessionFmt    = "failed to create AWS session: %w"
	errFailedGetObjectFmt           = "failed to get object: %w"
	errFailedReadObjectFmt          = "failed to read object body: %w"
	errFailedListObjectsFmt         = "failed to list objects: %w"
	errFailedDeleteFolderObjectsFmt = "failed to delete folder objects: %w"
)

// Config carries the credentials and region for the S3 client.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Client wraps the S3 API for forecast artifact storage.
type Client struct {
	svc *s3.S3
}

func NewClient(cfg Config) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{svc: s3.New(sess)}, nil
}

// GetObject downloads an object and returns its contents.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedGetObjectFmt, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedReadObjectFmt, err)
	}
	return body, nil
}

// DeleteFolder removes every object under a prefix, batch by batch.
func (c *Client) DeleteFolder(ctx context.Context, bucket, prefix string) error {
	result, err := c.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(deleteFolderBatchSize),
	})
	if err != nil {
		return fmt.Errorf(errFailedListObjectsFmt, err)
	}

	if len(result.Contents) == 0 {
		return nil
	}

	var objectsToDelete []*s3.ObjectIdentifier
	for _, obj := range result.Contents {
		objectsToDelete = append(objectsToDelete, &s3.ObjectIdentifier{
			Key: obj.Key,
		})
	}

	_, err = c.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{
			Objects: objectsToDelete,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteFolderObjectsFmt, err)
	}

	if aws.BoolValue(result.IsTruncated) {
		return c.DeleteFolder(ctx, bucket, prefix)
	}

	return nil
}
