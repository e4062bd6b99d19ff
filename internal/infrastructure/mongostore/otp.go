package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const otpCollection = "otp_records"

type otpDoc struct {
	Email          string     `bson:"_id"`
	CodeHash       string     `bson:"code_hash"`
	CodeSalt       string     `bson:"code_salt"`
	IssuedAt       time.Time  `bson:"issued_at"`
	ExpiresAt      time.Time  `bson:"expires_at"`
	Consumed       bool       `bson:"consumed"`
	ConsumedAt     *time.Time `bson:"consumed_at,omitempty"`
	GrantHash      string     `bson:"grant_hash"`
	GrantExpiresAt time.Time  `bson:"grant_expires_at"`
	GrantUsed      bool       `bson:"grant_used"`
	EvictAt        time.Time  `bson:"evict_at"`
}

func toDoc(rec *domain.OTPRecord) otpDoc {
	return otpDoc{
		Email:          rec.Email,
		CodeHash:       rec.CodeHash,
		CodeSalt:       rec.CodeSalt,
		IssuedAt:       rec.IssuedAt.UTC(),
		ExpiresAt:      rec.ExpiresAt.UTC(),
		Consumed:       rec.Consumed,
		ConsumedAt:     rec.ConsumedAt,
		GrantHash:      rec.GrantHash,
		GrantExpiresAt: rec.GrantExpiresAt.UTC(),
		GrantUsed:      rec.GrantUsed,
		EvictAt:        time.Unix(rec.TTL, 0).UTC(),
	}
}

func (d otpDoc) record() *domain.OTPRecord {
	return &domain.OTPRecord{
		Email:          d.Email,
		CodeHash:       d.CodeHash,
		CodeSalt:       d.CodeSalt,
		IssuedAt:       d.IssuedAt.UTC(),
		ExpiresAt:      d.ExpiresAt.UTC(),
		Consumed:       d.Consumed,
		ConsumedAt:     d.ConsumedAt,
		GrantHash:      d.GrantHash,
		GrantExpiresAt: d.GrantExpiresAt.UTC(),
		GrantUsed:      d.GrantUsed,
		TTL:            d.EvictAt.Unix(),
	}
}

// OTPStore keeps one document per email, keyed by _id. A TTL index on
// evict_at lets the server drop dead records.
type OTPStore struct {
	coll *mongo.Collection
}

func NewOTPStore(db *mongo.Database) *OTPStore {
	return &OTPStore{coll: db.Collection(otpCollection)}
}

// EnsureIndexes creates the TTL index. It is idempotent.
func (s *OTPStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "evict_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("evict_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create otp ttl index: %w", err)
	}
	return nil
}

func (s *OTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	doc := toDoc(rec)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Email}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert otp record: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var doc otpDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get otp record: %w", err)
	}
	return doc.record(), nil
}

func (s *OTPStore) MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	now = now.UTC()
	filter := bson.M{
		"_id":        email,
		"consumed":   false,
		"code_hash":  codeHash,
		"expires_at": bson.M{"$gte": now},
	}
	update := bson.M{"$set": bson.M{
		"consumed":         true,
		"consumed_at":      now,
		"grant_hash":       grant.Hash,
		"grant_expires_at": grant.ExpiresAt.UTC(),
		"grant_used":       false,
		"evict_at":         grant.ExpiresAt.UTC().Add(time.Hour),
	}}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("consume otp record: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *OTPStore) RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error) {
	if grantHash == "" {
		return false, nil
	}
	filter := bson.M{
		"_id":              email,
		"grant_hash":       grantHash,
		"grant_used":       false,
		"grant_expires_at": bson.M{"$gte": now.UTC()},
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"grant_used": true}})
	if err != nil {
		return false, fmt.Errorf("redeem grant: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
