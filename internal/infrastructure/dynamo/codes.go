package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-api/internal/domain"
)

type codeItem struct {
	Key       string    `dynamodbav:"code_key"`
	Value     string    `dynamodbav:"value"`
	ExpiresAt time.Time `dynamodbav:"expires_at,unixtime"`
}

// CodeRepo is the DynamoDB ephemeral code store. TTL deletion in DynamoDB is
// lazy, so reads also reject items whose expires_at has passed.
type CodeRepo struct {
	client    API
	tableName string
	now       func() time.Time
}

func NewCodeRepo(client API, tableName string) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *CodeRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ephemeral code ttl must be positive")
	}
	item, err := attributevalue.MarshalMap(codeItem{Key: key, Value: value, ExpiresAt: r.now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("marshal code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CodeRepo) Get(ctx context.Context, key string) (string, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldCodeKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return r.live(out.Item)
}

// Take deletes key and returns the value it held. Only one concurrent caller
// receives the old attributes.
func (r *CodeRepo) Take(ctx context.Context, key string) (string, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          strKey(fieldCodeKey, key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return "", err
	}
	return r.live(out.Attributes)
}

// TakeIfEqual deletes key only while it still holds value and has not
// expired. Any other state reports not-found and leaves the item untouched.
func (r *CodeRepo) TakeIfEqual(ctx context.Context, key, value string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldCodeKey, key),
		ConditionExpression: aws.String("#v = :v AND #e > :now"),
		ExpressionAttributeNames: map[string]string{
			"#v": "value",
			"#e": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":   &types.AttributeValueMemberS{Value: value},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(r.now().Unix(), 10)},
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("code not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *CodeRepo) live(item map[string]types.AttributeValue) (string, error) {
	if len(item) == 0 {
		return "", fmt.Errorf("code not found: %w", domain.ErrNotFound)
	}
	var c codeItem
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return "", err
	}
	if !r.now().Before(c.ExpiresAt) {
		return "", fmt.Errorf("code expired: %w", domain.ErrNotFound)
	}
	return c.Value, nil
}
