package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type otpRow struct {
	Email          string `gorm:"primaryKey"`
	CodeHash       string
	CodeSalt       string
	IssuedAt       time.Time
	ExpiresAt      time.Time
	Consumed       bool
	ConsumedAt     *time.Time
	GrantHash      string
	GrantExpiresAt *time.Time
	GrantUsed      bool
	EvictAt        time.Time `gorm:"index"`
}

func (otpRow) TableName() string { return "otp_records" }

// OTPStore persists OTP records in the otp_records table. Conditional
// UPDATEs give the atomic consume and redeem; Sweep evicts dead rows.
type OTPStore struct {
	db *gorm.DB
}

func NewOTPStore(db *gorm.DB) *OTPStore {
	return &OTPStore{db: db}
}

func (s *OTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	row := otpRow{
		Email:     rec.Email,
		CodeHash:  rec.CodeHash,
		CodeSalt:  rec.CodeSalt,
		IssuedAt:  rec.IssuedAt.UTC(),
		ExpiresAt: rec.ExpiresAt.UTC(),
		Consumed:  rec.Consumed,
		GrantHash: rec.GrantHash,
		GrantUsed: rec.GrantUsed,
		EvictAt:   time.Unix(rec.TTL, 0).UTC(),
	}
	if rec.ConsumedAt != nil {
		t := rec.ConsumedAt.UTC()
		row.ConsumedAt = &t
	}
	if !rec.GrantExpiresAt.IsZero() {
		t := rec.GrantExpiresAt.UTC()
		row.GrantExpiresAt = &t
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert otp record: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var row otpRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get otp record: %w", err)
	}
	rec := &domain.OTPRecord{
		Email:      row.Email,
		CodeHash:   row.CodeHash,
		CodeSalt:   row.CodeSalt,
		IssuedAt:   row.IssuedAt.UTC(),
		ExpiresAt:  row.ExpiresAt.UTC(),
		Consumed:   row.Consumed,
		ConsumedAt: row.ConsumedAt,
		GrantHash:  row.GrantHash,
		GrantUsed:  row.GrantUsed,
		TTL:        row.EvictAt.Unix(),
	}
	if row.GrantExpiresAt != nil {
		rec.GrantExpiresAt = row.GrantExpiresAt.UTC()
	}
	return rec, nil
}

func (s *OTPStore) MarkConsumed(ctx context.Context, email, codeHash string, now time.Time, grant domain.VerificationGrant) (bool, error) {
	now = now.UTC()
	grantExp := grant.ExpiresAt.UTC()
	res := s.db.WithContext(ctx).Model(&otpRow{}).
		Where("email = ? AND consumed = ? AND code_hash = ? AND expires_at >= ?", email, false, codeHash, now).
		Updates(map[string]interface{}{
			"consumed":         true,
			"consumed_at":      now,
			"grant_hash":       grant.Hash,
			"grant_expires_at": grantExp,
			"grant_used":       false,
			"evict_at":         grantExp.Add(time.Hour),
		})
	if res.Error != nil {
		return false, fmt.Errorf("consume otp record: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *OTPStore) RedeemGrant(ctx context.Context, email, grantHash string, now time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&otpRow{}).
		Where("email = ? AND grant_hash = ? AND grant_hash <> '' AND grant_used = ? AND grant_expires_at >= ?",
			email, grantHash, false, now.UTC()).
		Update("grant_used", true)
	if res.Error != nil {
		return false, fmt.Errorf("redeem grant: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Sweep deletes rows past their eviction time.
func (s *OTPStore) Sweep(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("evict_at < ?", now.UTC()).Delete(&otpRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep otp records: %w", res.Error)
	}
	return res.RowsAffected, nil
}
