package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-portal-api/internal/domain"
)

// AdminRepo provides typed DynamoDB operations for the admins table.
type AdminRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminRepo(client *dynamodb.Client, tableName string) *AdminRepo {
	return &AdminRepo{client: client, tableName: tableName}
}

func (r *AdminRepo) Put(ctx context.Context, a *domain.Admin) error {
	return putIfAbsent(ctx, r.client, r.tableName, "admin_id", a)
}

func (r *AdminRepo) Get(ctx context.Context, adminID string) (*domain.Admin, error) {
	return getItem[domain.Admin](ctx, r.client, r.tableName, "admin_id", adminID)
}

func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return queryOne[domain.Admin](ctx, r.client, r.tableName, "username-index", "username", username)
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return queryOne[domain.Admin](ctx, r.client, r.tableName, "email-index", "email", email)
}

func (r *AdminRepo) Update(ctx context.Context, adminID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	return updateItem(ctx, r.client, r.tableName, "admin_id", adminID, updates)
}

func (r *AdminRepo) SoftDelete(ctx context.Context, adminID string) error {
	return r.Update(ctx, adminID, map[string]interface{}{fieldEnable: false})
}

// ScanPage returns a page of enabled admins.
// cursor is a base64-encoded admin_id used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *AdminRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Admin, string, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("enable = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
		Limit: aws.Int32(limit),
	}
	if cursor != "" {
		adminID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("admin_id", adminID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	admins := []domain.Admin{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &admins); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["admin_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return admins, nextCursor, nil
}
