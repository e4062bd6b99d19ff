package facility

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFacilities struct{ mock.Mock }

func (m *mockFacilities) Put(ctx context.Context, f *domain.Facility) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockFacilities) Get(ctx context.Context, facilityID string) (*domain.Facility, error) {
	args := m.Called(ctx, facilityID)
	if f, _ := args.Get(0).(*domain.Facility); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFacilities) GetByName(ctx context.Context, name string) (*domain.Facility, error) {
	args := m.Called(ctx, name)
	if f, _ := args.Get(0).(*domain.Facility); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFacilities) List(ctx context.Context) ([]domain.Facility, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Facility), args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Put(ctx context.Context, b *domain.BookingRequest) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookings) Get(ctx context.Context, bookingID string) (*domain.BookingRequest, error) {
	args := m.Called(ctx, bookingID)
	if b, _ := args.Get(0).(*domain.BookingRequest); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBookings) List(ctx context.Context) ([]domain.BookingRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *mockBookings) ListByFacility(ctx context.Context, facilityID string) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, facilityID)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *mockBookings) UpdateStatus(ctx context.Context, bookingID, status string) error {
	return m.Called(ctx, bookingID, status).Error(0)
}

type fakeGate struct {
	err   error
	calls int
}

func (g *fakeGate) Do(ctx context.Context, email, tok string, action func(context.Context) error) error {
	g.calls++
	if g.err != nil {
		return g.err
	}
	return action(ctx)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) StatusChanged(ctx context.Context, to, resource, status string) {
	m.Called(ctx, to, resource, status)
}

var hall = &domain.Facility{FacilityID: "f1", Name: "Main Hall"}

func bookingReq(start, end string) domain.CreateBookingRequest {
	return domain.CreateBookingRequest{Email: "club@college.edu", FacilityName: "Main Hall", Date: "2026-11-02", StartTime: start, EndTime: end}
}

// --- AddFacility ---

func TestAddFacility_DuplicateName(t *testing.T) {
	fs := &mockFacilities{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)

	_, err := NewService(ServiceDeps{Facilities: fs}).AddFacility(context.Background(), domain.FacilityInput{Name: "Main Hall"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestAddFacility_Success(t *testing.T) {
	fs := &mockFacilities{}
	fs.On("GetByName", mock.Anything, "Lab").Return(nil, domain.ErrNotFound)
	fs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Facility")).Return(nil)

	f, err := NewService(ServiceDeps{Facilities: fs}).AddFacility(context.Background(), domain.FacilityInput{Name: " Lab ", Capacity: 30})
	require.NoError(t, err)
	assert.Equal(t, "Lab", f.Name)
}

// --- RequestBooking ---

func TestRequestBooking_Success(t *testing.T) {
	fs, bs, g := &mockFacilities{}, &mockBookings{}, &fakeGate{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b0", Date: "2026-11-02", StartTime: "09:00", EndTime: "10:00", Status: domain.StatusApproved},
	}, nil)
	bs.On("Put", mock.Anything, mock.AnythingOfType("*domain.BookingRequest")).Return(nil)

	b, err := NewService(ServiceDeps{Facilities: fs, Bookings: bs, Gate: g}).RequestBooking(context.Background(), bookingReq("10:00", "11:00"), "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, 1, g.calls)
}

func TestRequestBooking_OverlapIsConflict(t *testing.T) {
	fs, bs, g := &mockFacilities{}, &mockBookings{}, &fakeGate{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b0", Date: "2026-11-02", StartTime: "09:00", EndTime: "10:30", Status: domain.StatusPending},
	}, nil)

	_, err := NewService(ServiceDeps{Facilities: fs, Bookings: bs, Gate: g}).RequestBooking(context.Background(), bookingReq("10:00", "11:00"), "tok")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Zero(t, g.calls)
}

func TestRequestBooking_RejectedDoesNotBlock(t *testing.T) {
	fs, bs := &mockFacilities{}, &mockBookings{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b0", Date: "2026-11-02", StartTime: "09:00", EndTime: "12:00", Status: domain.StatusRejected},
	}, nil)
	bs.On("Put", mock.Anything, mock.Anything).Return(nil)

	_, err := NewService(ServiceDeps{Facilities: fs, Bookings: bs, Gate: &fakeGate{}}).RequestBooking(context.Background(), bookingReq("10:00", "11:00"), "tok")
	require.NoError(t, err)
}

func TestRequestBooking_StartNotBeforeEnd(t *testing.T) {
	_, err := NewService(ServiceDeps{}).RequestBooking(context.Background(), bookingReq("11:00", "11:00"), "tok")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRequestBooking_UnpaddedHourOverlapIsConflict(t *testing.T) {
	fs, bs, g := &mockFacilities{}, &mockBookings{}, &fakeGate{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b0", Date: "2026-11-02", StartTime: "08:00", EndTime: "12:00", Status: domain.StatusApproved},
	}, nil)

	_, err := NewService(ServiceDeps{Facilities: fs, Bookings: bs, Gate: g}).RequestBooking(context.Background(), bookingReq("9:00", "9:30"), "tok")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Zero(t, g.calls)
}

func TestRequestBooking_UnpaddedHourIsStoredPadded(t *testing.T) {
	fs, bs := &mockFacilities{}, &mockBookings{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(hall, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b0", Date: "2026-11-02", StartTime: "10:00", EndTime: "12:00", Status: domain.StatusApproved},
	}, nil)
	bs.On("Put", mock.Anything, mock.AnythingOfType("*domain.BookingRequest")).Return(nil)

	b, err := NewService(ServiceDeps{Facilities: fs, Bookings: bs, Gate: &fakeGate{}}).RequestBooking(context.Background(), bookingReq("9:00", "10:00"), "tok")
	require.NoError(t, err)
	assert.Equal(t, "09:00", b.StartTime)
	assert.Equal(t, "10:00", b.EndTime)
}

func TestRequestBooking_MalformedTime(t *testing.T) {
	_, err := NewService(ServiceDeps{}).RequestBooking(context.Background(), bookingReq("25:00", "26:00"), "tok")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRequestBooking_UnknownFacility(t *testing.T) {
	fs := &mockFacilities{}
	fs.On("GetByName", mock.Anything, "Main Hall").Return(nil, domain.ErrNotFound)

	_, err := NewService(ServiceDeps{Facilities: fs}).RequestBooking(context.Background(), bookingReq("10:00", "11:00"), "tok")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- UpdateBookingStatus ---

func TestUpdateBookingStatus_ApproveConflictsWithApproved(t *testing.T) {
	bs := &mockBookings{}
	bs.On("Get", mock.Anything, "b1").Return(&domain.BookingRequest{BookingID: "b1", FacilityID: "f1", Date: "2026-11-02", StartTime: "10:00", EndTime: "11:00"}, nil)
	bs.On("ListByFacility", mock.Anything, "f1").Return([]domain.BookingRequest{
		{BookingID: "b1", Date: "2026-11-02", StartTime: "10:00", EndTime: "11:00", Status: domain.StatusPending},
		{BookingID: "b2", Date: "2026-11-02", StartTime: "10:30", EndTime: "12:00", Status: domain.StatusApproved},
	}, nil)

	_, err := NewService(ServiceDeps{Bookings: bs}).UpdateBookingStatus(context.Background(), "b1", domain.StatusApproved)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	bs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_RejectNotifies(t *testing.T) {
	bs, n := &mockBookings{}, &mockNotifier{}
	bs.On("Get", mock.Anything, "b1").Return(&domain.BookingRequest{BookingID: "b1", Email: "club@college.edu", FacilityName: "Main Hall"}, nil)
	bs.On("UpdateStatus", mock.Anything, "b1", domain.StatusRejected).Return(nil)
	n.On("StatusChanged", mock.Anything, "club@college.edu", "booking for Main Hall", domain.StatusRejected).Return()

	b, err := NewService(ServiceDeps{Bookings: bs, Notifier: n}).UpdateBookingStatus(context.Background(), "b1", domain.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, b.Status)
	n.AssertExpectations(t)
}
