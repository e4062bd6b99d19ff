package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// LeaveRepo stores regular and sick leave in one table. GSI on kind.
type LeaveRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLeaveRepo(client *dynamodb.Client, tableName string) *LeaveRepo {
	return &LeaveRepo{client: client, tableName: tableName}
}

func (r *LeaveRepo) Put(ctx context.Context, l *domain.Leave) error {
	return putIfAbsent(ctx, r.client, r.tableName, "leave_id", l)
}

func (r *LeaveRepo) Get(ctx context.Context, leaveID string) (*domain.Leave, error) {
	return getItem[domain.Leave](ctx, r.client, r.tableName, "leave_id", leaveID)
}

func (r *LeaveRepo) ListByKind(ctx context.Context, kind string) ([]domain.Leave, error) {
	return queryIndex[domain.Leave](ctx, r.client, r.tableName, "kind-index", "kind", kind)
}

func (r *LeaveRepo) UpdateStatus(ctx context.Context, leaveID, status string) error {
	return updateItem(ctx, r.client, r.tableName, "leave_id", leaveID, map[string]interface{}{
		fieldStatus:    status,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
