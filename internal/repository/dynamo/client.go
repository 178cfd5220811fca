package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const (
	emptyAWSSessionToken   = ""
	errFailedCreateSession = "failed to create AWS session: %w"
	conditionAttrNotExists = "attribute_not_exists(%s)"
	conditionAttrExists    = "attribute_exists(%s)"
)

// Config carries the credentials and region for the DynamoDB client.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the service endpoint, for local development.
	Endpoint string
}

// NewService builds the shared DynamoDB service client.
func NewService(cfg Config) (*dynamodb.DynamoDB, error) {
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
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSession, err)
	}

	return dynamodb.New(sess), nil
}
