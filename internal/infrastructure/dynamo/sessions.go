package dynamo

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// SessionRepo provides typed DynamoDB operations for the sessions table.
type SessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSessionRepo(client *dynamodb.Client, tableName string) *SessionRepo {
	return &SessionRepo{client: client, tableName: tableName}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	return putItem(ctx, r.client, r.tableName, s)
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return getItem[domain.Session](ctx, r.client, r.tableName, "session_id", sessionID)
}

func (r *SessionRepo) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	return updateItem(ctx, r.client, r.tableName, "session_id", sessionID, updates)
}

func (r *SessionRepo) SoftDelete(ctx context.Context, sessionID string) error {
	return r.Update(ctx, sessionID, map[string]interface{}{fieldEnable: false})
}

// SoftDeleteByAdmin disables every session of an admin. It keeps going past
// individual failures and returns the first one.
func (r *SessionRepo) SoftDeleteByAdmin(ctx context.Context, adminID string) error {
	sessions, err := queryIndex[domain.Session](ctx, r.client, r.tableName, "admin_id-index", "admin_id", adminID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, s := range sessions {
		if !s.Enable {
			continue
		}
		if err := r.SoftDelete(ctx, s.SessionID); err != nil {
			slog.Warn("failed to disable session during admin soft-delete", "session_id", s.SessionID, "admin_id", adminID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
