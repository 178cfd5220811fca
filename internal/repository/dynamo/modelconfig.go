package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"wrfcloud/internal/domain/modelconfig"
	apperrors "wrfcloud/pkg/errors"
)

const modelConfigKeyAttr = "model_config_id"

// ModelConfigRepo stores model configurations in a DynamoDB table keyed by
// configuration name.
type ModelConfigRepo struct {
	svc   *dynamodb.DynamoDB
	table string
}

func NewModelConfigRepo(svc *dynamodb.DynamoDB, table string) *ModelConfigRepo {
	return &ModelConfigRepo{svc: svc, table: table}
}

func (r *ModelConfigRepo) Get(ctx context.Context, name string) (*modelconfig.ModelConfig, error) {
	out, err := r.svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			modelConfigKeyAttr: {S: aws.String(name)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get model configuration: %w", err)
	}
	if out.Item == nil {
		return nil, apperrors.NotFound("model configuration not found")
	}

	var mc modelconfig.ModelConfig
	if err := dynamodbattribute.UnmarshalMap(out.Item, &mc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model configuration: %w", err)
	}
	return &mc, nil
}

func (r *ModelConfigRepo) List(ctx context.Context) ([]modelconfig.ModelConfig, error) {
	var configs []modelconfig.ModelConfig
	err := r.svc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []modelconfig.ModelConfig
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return false
		}
		configs = append(configs, batch...)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan model configurations: %w", err)
	}
	return configs, nil
}

func (r *ModelConfigRepo) Create(ctx context.Context, mc *modelconfig.ModelConfig) error {
	now := time.Now().UTC()
	mc.CreatedAt = now
	mc.UpdatedAt = now

	item, err := dynamodbattribute.MarshalMap(mc)
	if err != nil {
		return fmt.Errorf("failed to marshal model configuration: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrNotExists, modelConfigKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.Conflict("model configuration already exists")
		}
		return fmt.Errorf("failed to create model configuration: %w", err)
	}
	return nil
}

func (r *ModelConfigRepo) Update(ctx context.Context, mc *modelconfig.ModelConfig) error {
	mc.UpdatedAt = time.Now().UTC()

	item, err := dynamodbattribute.MarshalMap(mc)
	if err != nil {
		return fmt.Errorf("failed to marshal model configuration: %w", err)
	}

	_, err = r.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String(fmt.Sprintf(conditionAttrExists, modelConfigKeyAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NotFound("model configuration not found")
		}
		return fmt.Errorf("failed to update model configuration: %w", err)
	}
	return nil
}

func (r *ModelConfigRepo) Delete(ctx context.Context, name string) error {
	_, err := r.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			modelConfigKeyAttr: {S: aws.String(name)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete model configuration: %w", err)
	}
	return nil
}
