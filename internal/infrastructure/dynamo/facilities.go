package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/domain"
)

// FacilityRepo stores bookable facilities. PK: facility_id, GSI on name.
type FacilityRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFacilityRepo(client *dynamodb.Client, tableName string) *FacilityRepo {
	return &FacilityRepo{client: client, tableName: tableName}
}

func (r *FacilityRepo) Put(ctx context.Context, f *domain.Facility) error {
	return putIfAbsent(ctx, r.client, r.tableName, "facility_id", f)
}

func (r *FacilityRepo) Get(ctx context.Context, facilityID string) (*domain.Facility, error) {
	return getItem[domain.Facility](ctx, r.client, r.tableName, "facility_id", facilityID)
}

func (r *FacilityRepo) GetByName(ctx context.Context, name string) (*domain.Facility, error) {
	return queryOne[domain.Facility](ctx, r.client, r.tableName, "name-index", "name", name)
}

func (r *FacilityRepo) List(ctx context.Context) ([]domain.Facility, error) {
	return scanAll[domain.Facility](ctx, r.client, r.tableName)
}

// BookingRepo stores booking requests. PK: booking_id, GSI on facility_id.
type BookingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBookingRepo(client *dynamodb.Client, tableName string) *BookingRepo {
	return &BookingRepo{client: client, tableName: tableName}
}

func (r *BookingRepo) Put(ctx context.Context, b *domain.BookingRequest) error {
	return putIfAbsent(ctx, r.client, r.tableName, "booking_id", b)
}

func (r *BookingRepo) Get(ctx context.Context, bookingID string) (*domain.BookingRequest, error) {
	return getItem[domain.BookingRequest](ctx, r.client, r.tableName, "booking_id", bookingID)
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.BookingRequest, error) {
	return scanAll[domain.BookingRequest](ctx, r.client, r.tableName)
}

func (r *BookingRepo) ListByFacility(ctx context.Context, facilityID string) ([]domain.BookingRequest, error) {
	return queryIndex[domain.BookingRequest](ctx, r.client, r.tableName, "facility_id-index", "facility_id", facilityID)
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID, status string) error {
	return updateItem(ctx, r.client, r.tableName, "booking_id", bookingID, map[string]interface{}{
		fieldStatus:    status,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
