package handler

import (
	"net/http"

	"github.com/campus-portal-api/internal/application/leave"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// LeaveHandler serves regular and sick leave.
type LeaveHandler struct {
	svc leave.Service
}

func NewLeaveHandler(svc leave.Service) *LeaveHandler { return &LeaveHandler{svc: svc} }

// Apply takes multipart form fields plus an optional "proofDocument" file.
func (h *LeaveHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	req := domain.CreateLeaveRequest{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Reason:    r.FormValue("reason"),
		StartDate: r.FormValue("start_date"),
		EndDate:   r.FormValue("end_date"),
	}
	proof, f, err := formFile(r, "proofDocument")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proofDocument")
		return
	}
	if f != nil {
		defer f.Close()
	}
	l, err := h.svc.Apply(r.Context(), req, verificationToken(r, r.FormValue("verification_token")), proof)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Leave application submitted", l)
}

type sickLeaveBody struct {
	domain.CreateSickLeaveRequest
	VerificationToken string `json:"verification_token"`
}

func (h *LeaveHandler) ApplySick(w http.ResponseWriter, r *http.Request) {
	var body sickLeaveBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := h.svc.ApplySick(r.Context(), body.CreateSickLeaveRequest, verificationToken(r, body.VerificationToken))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Sick leave application submitted", l)
}

func (h *LeaveHandler) List(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := h.svc.List(r.Context(), kind)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, "", ls)
	}
}

func (h *LeaveHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.StatusInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Leave status updated", l)
}

func (h *LeaveHandler) DoctorNote(w http.ResponseWriter, r *http.Request) {
	var req domain.DoctorNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SendDoctorNote(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Doctor's note sent successfully!"})
}
