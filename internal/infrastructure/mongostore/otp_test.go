package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestDocKeepsEvictionTime(t *testing.T) {
	exp := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)
	rec := &domain.OTPRecord{
		Email:     "a@x.com",
		CodeHash:  "h",
		ExpiresAt: exp,
		TTL:       domain.EvictAt(exp, time.Time{}, time.Hour).Unix(),
	}
	doc := toDoc(rec)
	assert.Equal(t, "a@x.com", doc.Email)
	assert.Equal(t, exp.Add(time.Hour), doc.EvictAt)
	assert.Equal(t, rec.TTL, doc.record().TTL)
}

// updated replies to an update command as the server would after matching
// n documents.
func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// sentUpdate returns the filter and $set document of the last update command.
func sentUpdate(mt *mtest.T) (bson.Raw, bson.Raw) {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, "update", evt.CommandName)
	stmt := evt.Command.Lookup("updates", "0").Document()
	return stmt.Lookup("q").Document(), stmt.Lookup("u", "$set").Document()
}

func TestMarkConsumed(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	grant := domain.VerificationGrant{Hash: "grant-hash", ExpiresAt: now.Add(15 * time.Minute)}

	mt.Run("matching record is consumed", func(mt *mtest.T) {
		mt.AddMockResponses(updated(1))

		ok, err := NewOTPStore(mt.DB).MarkConsumed(context.Background(), "a@x.com", "code-hash", now, grant)
		require.NoError(mt, err)
		assert.True(mt, ok)

		filter, set := sentUpdate(mt)
		assert.Equal(mt, "a@x.com", filter.Lookup("_id").StringValue())
		assert.False(mt, filter.Lookup("consumed").Boolean())
		assert.Equal(mt, "code-hash", filter.Lookup("code_hash").StringValue())
		assert.True(mt, now.Equal(filter.Lookup("expires_at", "$gte").Time()))

		assert.True(mt, set.Lookup("consumed").Boolean())
		assert.Equal(mt, "grant-hash", set.Lookup("grant_hash").StringValue())
		assert.False(mt, set.Lookup("grant_used").Boolean())
		assert.True(mt, grant.ExpiresAt.Add(time.Hour).Equal(set.Lookup("evict_at").Time()))
	})

	mt.Run("no matching record is not an error", func(mt *mtest.T) {
		mt.AddMockResponses(updated(0))

		ok, err := NewOTPStore(mt.DB).MarkConsumed(context.Background(), "a@x.com", "code-hash", now, grant)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("server error surfaces", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad filter"}))

		ok, err := NewOTPStore(mt.DB).MarkConsumed(context.Background(), "a@x.com", "code-hash", now, grant)
		assert.Error(mt, err)
		assert.False(mt, ok)
	})
}

func TestRedeemGrant(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2026, 3, 1, 9, 6, 0, 0, time.UTC)

	mt.Run("unused grant is redeemed", func(mt *mtest.T) {
		mt.AddMockResponses(updated(1))

		ok, err := NewOTPStore(mt.DB).RedeemGrant(context.Background(), "a@x.com", "grant-hash", now)
		require.NoError(mt, err)
		assert.True(mt, ok)

		filter, set := sentUpdate(mt)
		assert.Equal(mt, "a@x.com", filter.Lookup("_id").StringValue())
		assert.Equal(mt, "grant-hash", filter.Lookup("grant_hash").StringValue())
		assert.False(mt, filter.Lookup("grant_used").Boolean())
		assert.True(mt, now.Equal(filter.Lookup("grant_expires_at", "$gte").Time()))
		assert.True(mt, set.Lookup("grant_used").Boolean())
	})

	mt.Run("used grant is refused", func(mt *mtest.T) {
		mt.AddMockResponses(updated(0))

		ok, err := NewOTPStore(mt.DB).RedeemGrant(context.Background(), "a@x.com", "grant-hash", now)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("empty hash never reaches the server", func(mt *mtest.T) {
		ok, err := NewOTPStore(mt.DB).RedeemGrant(context.Background(), "a@x.com", "", now)
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
