package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"wrfcloud/internal/domain/user"
	apperrors "wrfcloud/pkg/errors"
)

const userKeyAttr = "email"

// UserRepo stores user records in a DynamoDB table keyed by email.
type UserRepo struct {
	svc   *dynamodb.DynamoDB
	table string
}

func NewUserRepo(svc *dynamodb.DynamoDB, table string) *UserRepo {
	return &UserRepo{svc: svc, table: table}
}

func (r *UserRepo) Get(ctx context.Context, email string) (*user.User, error) {
	out, err := r.svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			userKeyAttr: {S: aws.String(email)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if out.Item == nil {
		return nil, apperrors.NotFound("user not found")
	}

	var u user.User
	if err := dynamodbattribute.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.svc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []user.User
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return false
		}
		users = append(users, batch...)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	item, err := dynamodbattribute.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrNotExists, userKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.Conflict("user already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()

	item, err := dynamodbattribute.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrExists, userKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, email string) error {
	_, err := r.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			userKeyAttr: {S: aws.String(email)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func isConditionalCheckFailed(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
	}
	return false
}
