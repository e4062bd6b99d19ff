package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	fileapp "github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockJobAppSvc struct{ mock.Mock }

func (m *mockJobAppSvc) Submit(ctx context.Context, req domain.CreateApplicationRequest, tok string, proofs []fileapp.UploadInput) (*domain.JobApplication, error) {
	args := m.Called(ctx, req, tok, len(proofs))
	if a, _ := args.Get(0).(*domain.JobApplication); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJobAppSvc) List(ctx context.Context) ([]domain.JobApplication, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}
func (m *mockJobAppSvc) Get(ctx context.Context, id string) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if a, _ := args.Get(0).(*domain.JobApplication); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJobAppSvc) Update(ctx context.Context, id string, req domain.UpdateApplicationRequest) (*domain.JobApplication, error) {
	args := m.Called(ctx, id, req)
	if a, _ := args.Get(0).(*domain.JobApplication); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJobAppSvc) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockJobAppSvc) UpdateStatus(ctx context.Context, id, status string) (*domain.JobApplication, error) {
	args := m.Called(ctx, id, status)
	if a, _ := args.Get(0).(*domain.JobApplication); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFacilitySvc struct{ mock.Mock }

func (m *mockFacilitySvc) AddFacility(ctx context.Context, req domain.FacilityInput) (*domain.Facility, error) {
	args := m.Called(ctx, req)
	if f, _ := args.Get(0).(*domain.Facility); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFacilitySvc) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Facility), args.Error(1)
}
func (m *mockFacilitySvc) RequestBooking(ctx context.Context, req domain.CreateBookingRequest, tok string) (*domain.BookingRequest, error) {
	args := m.Called(ctx, req, tok)
	if b, _ := args.Get(0).(*domain.BookingRequest); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFacilitySvc) ListBookings(ctx context.Context) ([]domain.BookingRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *mockFacilitySvc) ListFacilityBookings(ctx context.Context, id string) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *mockFacilitySvc) UpdateBookingStatus(ctx context.Context, id, status string) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id, status)
	if b, _ := args.Get(0).(*domain.BookingRequest); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- applications ---

func TestSubmitApplication_NoTokenIsUnauthorized(t *testing.T) {
	svc := &mockJobAppSvc{}
	svc.On("Submit", mock.Anything, mock.Anything, "", 0).Return(nil, domain.ErrUnverified)

	rr := httptest.NewRecorder()
	NewApplicationHandler(svc).Submit(rr, jsonReq(t, http.MethodPost, "/api/v1/applications", domain.CreateApplicationRequest{Email: "a@college.edu"}))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertExpectations(t)
}

func TestSubmitApplication_HeaderTokenWins(t *testing.T) {
	svc := &mockJobAppSvc{}
	svc.On("Submit", mock.Anything, mock.Anything, "hdr-token", 0).Return(&domain.JobApplication{ApplicationID: "a1"}, nil)

	r := jsonReq(t, http.MethodPost, "/api/v1/applications", map[string]string{"email": "a@college.edu", "verification_token": "body-token"})
	r.Header.Set(VerificationTokenHeader, "hdr-token")
	rr := httptest.NewRecorder()
	NewApplicationHandler(svc).Submit(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestSubmitApplication_MultipartWithProofs(t *testing.T) {
	svc := &mockJobAppSvc{}
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(req domain.CreateApplicationRequest) bool {
		return req.Email == "a@college.edu" && req.Reg == "21CS001"
	}), "form-token", 2).Return(&domain.JobApplication{ApplicationID: "a1"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	data, _ := json.Marshal(domain.CreateApplicationRequest{Email: "a@college.edu", Reg: "21CS001"})
	require.NoError(t, mw.WriteField("data", string(data)))
	require.NoError(t, mw.WriteField("verification_token", "form-token"))
	for _, name := range []string{"ssc.pdf", "hsc.pdf"} {
		fw, err := mw.CreateFormFile("proofs", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("%PDF-1.4"))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/applications", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	NewApplicationHandler(svc).Submit(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestSubmitApplication_DuplicateIsConflict(t *testing.T) {
	svc := &mockJobAppSvc{}
	svc.On("Submit", mock.Anything, mock.Anything, "tok", 0).Return(nil, domain.ErrConflict)

	r := jsonReq(t, http.MethodPost, "/api/v1/applications", map[string]string{"email": "a@college.edu"})
	r.Header.Set(VerificationTokenHeader, "tok")
	rr := httptest.NewRecorder()
	NewApplicationHandler(svc).Submit(rr, r)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

// --- bookings ---

func TestRequestBooking_BodyToken(t *testing.T) {
	svc := &mockFacilitySvc{}
	svc.On("RequestBooking", mock.Anything, mock.MatchedBy(func(req domain.CreateBookingRequest) bool {
		return req.FacilityName == "Main Hall" && req.StartTime == "10:00"
	}), "body-token").Return(&domain.BookingRequest{BookingID: "b1"}, nil)

	r := jsonReq(t, http.MethodPost, "/api/v1/facilities/bookings", map[string]string{
		"email": "club@college.edu", "facility_name": "Main Hall", "date": "2026-11-02",
		"start_time": "10:00", "end_time": "11:00", "verification_token": "body-token",
	})
	rr := httptest.NewRecorder()
	NewFacilityHandler(svc).RequestBooking(rr, r)
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestRequestBooking_OverlapIsConflict(t *testing.T) {
	svc := &mockFacilitySvc{}
	svc.On("RequestBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)

	rr := httptest.NewRecorder()
	NewFacilityHandler(svc).RequestBooking(rr, jsonReq(t, http.MethodPost, "/api/v1/facilities/bookings", map[string]string{}))
	assert.Equal(t, http.StatusConflict, rr.Code)
}
