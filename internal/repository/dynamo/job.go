package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"wrfcloud/internal/domain/job"
	apperrors "wrfcloud/pkg/errors"
)

const jobKeyAttr = "job_id"

// JobRepo stores forecast job records in a DynamoDB table keyed by job id.
type JobRepo struct {
	svc   *dynamodb.DynamoDB
	table string
}

func NewJobRepo(svc *dynamodb.DynamoDB, table string) *JobRepo {
	return &JobRepo{svc: svc, table: table}
}

func (r *JobRepo) Get(ctx context.Context, jobID string) (*job.WrfJob, error) {
	out, err := r.svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			jobKeyAttr: {S: aws.String(jobID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if out.Item == nil {
		return nil, apperrors.NotFound("job not found")
	}

	var j job.WrfJob
	if err := dynamodbattribute.UnmarshalMap(out.Item, &j); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &j, nil
}

func (r *JobRepo) List(ctx context.Context) ([]job.WrfJob, error) {
	var jobs []job.WrfJob
	err := r.svc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []job.WrfJob
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return false
		}
		jobs = append(jobs, batch...)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepo) Create(ctx context.Context, j *job.WrfJob) error {
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	item, err := dynamodbattribute.MarshalMap(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrNotExists, jobKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.Conflict("job already exists")
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepo) Update(ctx context.Context, j *job.WrfJob) error {
	j.UpdatedAt = time.Now().UTC()

	item, err := dynamodbattribute.MarshalMap(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrExists, jobKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("job not found")
		}
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, jobID string) error {
	_, err := r.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			jobKeyAttr: {S: aws.String(jobID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}
