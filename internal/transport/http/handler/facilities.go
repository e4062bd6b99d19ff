package handler

import (
	"net/http"

	"github.com/campus-portal-api/internal/application/facility"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// FacilityHandler serves facilities and their booking requests.
type FacilityHandler struct {
	svc facility.Service
}

func NewFacilityHandler(svc facility.Service) *FacilityHandler { return &FacilityHandler{svc: svc} }

func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	fs, err := h.svc.ListFacilities(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", fs)
}

func (h *FacilityHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.FacilityInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	f, err := h.svc.AddFacility(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Facility added", f)
}

type bookingBody struct {
	domain.CreateBookingRequest
	VerificationToken string `json:"verification_token"`
}

func (h *FacilityHandler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.RequestBooking(r.Context(), body.CreateBookingRequest, verificationToken(r, body.VerificationToken))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Booking request submitted", b)
}

func (h *FacilityHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.ListBookings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", bs)
}

func (h *FacilityHandler) ListFacilityBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.ListFacilityBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", bs)
}

func (h *FacilityHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBookingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.UpdateBookingStatus(r.Context(), req.BookingID, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Booking status updated", b)
}
