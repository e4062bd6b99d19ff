package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

type ComplaintRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewComplaintRepo(client *dynamodb.Client, tableName string) *ComplaintRepo {
	return &ComplaintRepo{client: client, tableName: tableName}
}

func (r *ComplaintRepo) Put(ctx context.Context, c *domain.Complaint) error {
	return putIfAbsent(ctx, r.client, r.tableName, "complaint_id", c)
}

func (r *ComplaintRepo) Get(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	return getItem[domain.Complaint](ctx, r.client, r.tableName, "complaint_id", complaintID)
}

func (r *ComplaintRepo) List(ctx context.Context) ([]domain.Complaint, error) {
	return scanAll[domain.Complaint](ctx, r.client, r.tableName)
}

func (r *ComplaintRepo) UpdateStatus(ctx context.Context, complaintID, status string) error {
	return updateItem(ctx, r.client, r.tableName, "complaint_id", complaintID, map[string]interface{}{
		fieldStatus:    status,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *ComplaintRepo) Upvote(ctx context.Context, complaintID string) error {
	return addCounters(ctx, r.client, r.tableName, "complaint_id", complaintID, map[string]int{fieldVotes: 1})
}
