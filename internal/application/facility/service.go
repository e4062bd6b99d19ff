package facility

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
)

type Service interface {
	AddFacility(ctx context.Context, req domain.FacilityInput) (*domain.Facility, error)
	ListFacilities(ctx context.Context) ([]domain.Facility, error)
	RequestBooking(ctx context.Context, req domain.CreateBookingRequest, verificationToken string) (*domain.BookingRequest, error)
	ListBookings(ctx context.Context) ([]domain.BookingRequest, error)
	ListFacilityBookings(ctx context.Context, facilityID string) ([]domain.BookingRequest, error)
	UpdateBookingStatus(ctx context.Context, bookingID, status string) (*domain.BookingRequest, error)
}

type facilityStore interface {
	Put(ctx context.Context, f *domain.Facility) error
	Get(ctx context.Context, facilityID string) (*domain.Facility, error)
	GetByName(ctx context.Context, name string) (*domain.Facility, error)
	List(ctx context.Context) ([]domain.Facility, error)
}

type bookingStore interface {
	Put(ctx context.Context, b *domain.BookingRequest) error
	Get(ctx context.Context, bookingID string) (*domain.BookingRequest, error)
	List(ctx context.Context) ([]domain.BookingRequest, error)
	ListByFacility(ctx context.Context, facilityID string) ([]domain.BookingRequest, error)
	UpdateStatus(ctx context.Context, bookingID, status string) error
}

type gatekeeper interface {
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type notifier interface {
	StatusChanged(ctx context.Context, to, resource, status string)
}

type ServiceDeps struct {
	Facilities facilityStore
	Bookings   bookingStore
	Gate       gatekeeper
	Notifier   notifier
}

type service struct {
	facilities facilityStore
	bookings   bookingStore
	gate       gatekeeper
	notifier   notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{facilities: deps.Facilities, bookings: deps.Bookings, gate: deps.Gate, notifier: deps.Notifier}
}

func (s *service) AddFacility(ctx context.Context, req domain.FacilityInput) (*domain.Facility, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	name := strings.TrimSpace(req.Name)
	if _, err := s.facilities.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("facility %q already exists: %w", name, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	f := &domain.Facility{
		FacilityID:  id.New(),
		Name:        name,
		Description: req.Description,
		Capacity:    req.Capacity,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.facilities.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	return s.facilities.List(ctx)
}

// RequestBooking files a pending booking. A window that overlaps any
// booking not yet rejected is refused before the verification token is
// spent.
func (s *service) RequestBooking(ctx context.Context, req domain.CreateBookingRequest, verificationToken string) (*domain.BookingRequest, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	start, end, err := bookingWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	f, err := s.facilities.GetByName(ctx, strings.TrimSpace(req.FacilityName))
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, f.FacilityID, "", req.Date, start, end, false); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)
	now := time.Now().UTC()
	b := &domain.BookingRequest{
		BookingID:    id.New(),
		FacilityID:   f.FacilityID,
		FacilityName: f.Name,
		Email:        email,
		Date:         req.Date,
		StartTime:    domain.FormatClock(start),
		EndTime:      domain.FormatClock(end),
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.gate.Do(ctx, email, verificationToken, func(ctx context.Context) error {
		return s.bookings.Put(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context) ([]domain.BookingRequest, error) {
	return s.bookings.List(ctx)
}

func (s *service) ListFacilityBookings(ctx context.Context, facilityID string) ([]domain.BookingRequest, error) {
	if _, err := s.facilities.Get(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.bookings.ListByFacility(ctx, facilityID)
}

// UpdateBookingStatus approves or rejects a booking. Approval is refused
// when another approved booking already holds an overlapping window.
func (s *service) UpdateBookingStatus(ctx context.Context, bookingID, status string) (*domain.BookingRequest, error) {
	status, err := domain.ParseDecision(status)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if status == domain.StatusApproved {
		start, end, err := bookingWindow(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		if err := s.checkOverlap(ctx, b.FacilityID, b.BookingID, b.Date, start, end, true); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	b.Status = status
	s.notifier.StatusChanged(ctx, b.Email, "booking for "+b.FacilityName, status)
	return b, nil
}

// bookingWindow converts a start/end pair to minutes past midnight.
func bookingWindow(startTime, endTime string) (int, int, error) {
	start, err := domain.ParseClock(startTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start time %q: %w", startTime, domain.ErrBadRequest)
	}
	end, err := domain.ParseClock(endTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end time %q: %w", endTime, domain.ErrBadRequest)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("start time must be before end time: %w", domain.ErrBadRequest)
	}
	return start, end, nil
}

func (s *service) checkOverlap(ctx context.Context, facilityID, skipID, date string, start, end int, approvedOnly bool) error {
	existing, err := s.bookings.ListByFacility(ctx, facilityID)
	if err != nil {
		return err
	}
	for i := range existing {
		b := &existing[i]
		if b.BookingID == skipID || b.Status == domain.StatusRejected {
			continue
		}
		if approvedOnly && b.Status != domain.StatusApproved {
			continue
		}
		if b.Overlaps(date, start, end) {
			return fmt.Errorf("facility is already booked %s %s-%s: %w", b.Date, b.StartTime, b.EndTime, domain.ErrConflict)
		}
	}
	return nil
}
