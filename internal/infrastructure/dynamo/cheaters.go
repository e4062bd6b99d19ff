package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// CheaterRepo stores cheating reports keyed by student id.
type CheaterRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCheaterRepo(client *dynamodb.Client, tableName string) *CheaterRepo {
	return &CheaterRepo{client: client, tableName: tableName}
}

// Put fails with ErrConflict when the student was already reported.
func (r *CheaterRepo) Put(ctx context.Context, c *domain.CheatingReport) error {
	return putIfAbsent(ctx, r.client, r.tableName, "student_id", c)
}

func (r *CheaterRepo) List(ctx context.Context) ([]domain.CheatingReport, error) {
	return scanAll[domain.CheatingReport](ctx, r.client, r.tableName)
}
