package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-portal-api/internal/domain"
)

// ApplicationRepo stores job applications.
// PK: application_id. GSIs on email and reg back the election lookups.
type ApplicationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewApplicationRepo(client *dynamodb.Client, tableName string) *ApplicationRepo {
	return &ApplicationRepo{client: client, tableName: tableName}
}

func (r *ApplicationRepo) Put(ctx context.Context, a *domain.JobApplication) error {
	return putIfAbsent(ctx, r.client, r.tableName, "application_id", a)
}

func (r *ApplicationRepo) Get(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	return getItem[domain.JobApplication](ctx, r.client, r.tableName, "application_id", applicationID)
}

func (r *ApplicationRepo) GetByEmail(ctx context.Context, email string) (*domain.JobApplication, error) {
	return queryOne[domain.JobApplication](ctx, r.client, r.tableName, "email-index", "email", email)
}

func (r *ApplicationRepo) GetByReg(ctx context.Context, reg string) (*domain.JobApplication, error) {
	return queryOne[domain.JobApplication](ctx, r.client, r.tableName, "reg-index", "reg", reg)
}

func (r *ApplicationRepo) List(ctx context.Context) ([]domain.JobApplication, error) {
	return scanAll[domain.JobApplication](ctx, r.client, r.tableName)
}

func (r *ApplicationRepo) Update(ctx context.Context, applicationID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	return updateItem(ctx, r.client, r.tableName, "application_id", applicationID, updates)
}

func (r *ApplicationRepo) Delete(ctx context.Context, applicationID string) error {
	return deleteItem(ctx, r.client, r.tableName, "application_id", applicationID)
}

// MarkVoted flips is_voted from false to true. A second call fails with
// ErrConflict, so each student votes at most once.
func (r *ApplicationRepo) MarkVoted(ctx context.Context, applicationID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("application_id", applicationID),
		ConditionExpression:      aws.String("attribute_exists(application_id) AND (attribute_not_exists(#v) OR #v = :f)"),
		UpdateExpression:         aws.String("SET #v = :t, #u = :now"),
		ExpressionAttributeNames: map[string]string{"#v": fieldIsVoted, "#u": fieldUpdatedAt},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("student has already voted: %w", domain.ErrConflict)
	}
	return err
}
