package handler

import (
	"net/http"
	"strconv"

	"github.com/campus-portal-api/internal/application/complaint"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ComplaintHandler serves student complaints.
type ComplaintHandler struct {
	svc complaint.Service
}

func NewComplaintHandler(svc complaint.Service) *ComplaintHandler { return &ComplaintHandler{svc: svc} }

// File takes multipart form fields plus an optional "media" file.
func (h *ComplaintHandler) File(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	anonymous, _ := strconv.ParseBool(r.FormValue("is_anonymous"))
	req := domain.CreateComplaintRequest{
		StudentName:  r.FormValue("student_name"),
		StudentEmail: r.FormValue("student_email"),
		Description:  r.FormValue("description"),
		IsAnonymous:  anonymous,
	}
	media, f, err := formFile(r, "media")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media file")
		return
	}
	if f != nil {
		defer f.Close()
	}
	c, err := h.svc.File(r.Context(), req, verificationToken(r, r.FormValue("verification_token")), media)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Complaint filed", c.Public())
}

func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", cs)
}

func (h *ComplaintHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Upvote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Vote counted"})
}

func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.StatusInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Complaint status updated", c)
}
