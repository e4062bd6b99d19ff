package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// CandidateRepo stores election candidates and their running tallies.
type CandidateRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCandidateRepo(client *dynamodb.Client, tableName string) *CandidateRepo {
	return &CandidateRepo{client: client, tableName: tableName}
}

func (r *CandidateRepo) Put(ctx context.Context, c *domain.Candidate) error {
	return putIfAbsent(ctx, r.client, r.tableName, "candidate_id", c)
}

func (r *CandidateRepo) Get(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	return getItem[domain.Candidate](ctx, r.client, r.tableName, "candidate_id", candidateID)
}

func (r *CandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	return scanAll[domain.Candidate](ctx, r.client, r.tableName)
}

func (r *CandidateRepo) Delete(ctx context.Context, candidateID string) error {
	return deleteItem(ctx, r.client, r.tableName, "candidate_id", candidateID)
}

// AddVotes increments the named tally counters atomically.
func (r *CandidateRepo) AddVotes(ctx context.Context, candidateID string, deltas map[string]int) error {
	return addCounters(ctx, r.client, r.tableName, "candidate_id", candidateID, deltas)
}
