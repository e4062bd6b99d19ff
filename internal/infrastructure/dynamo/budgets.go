package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// BudgetRepo stores budgets with their expenses embedded as a list.
type BudgetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBudgetRepo(client *dynamodb.Client, tableName string) *BudgetRepo {
	return &BudgetRepo{client: client, tableName: tableName}
}

func (r *BudgetRepo) Create(ctx context.Context, b *domain.Budget) error {
	return putIfAbsent(ctx, r.client, r.tableName, "budget_id", b)
}

// Save overwrites the whole item, expenses included.
func (r *BudgetRepo) Save(ctx context.Context, b *domain.Budget) error {
	b.UpdatedAt = time.Now().UTC()
	return putItem(ctx, r.client, r.tableName, b)
}

func (r *BudgetRepo) Get(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return getItem[domain.Budget](ctx, r.client, r.tableName, "budget_id", budgetID)
}

func (r *BudgetRepo) List(ctx context.Context) ([]domain.Budget, error) {
	return scanAll[domain.Budget](ctx, r.client, r.tableName)
}

func (r *BudgetRepo) Delete(ctx context.Context, budgetID string) error {
	return deleteItem(ctx, r.client, r.tableName, "budget_id", budgetID)
}
