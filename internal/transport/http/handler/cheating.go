package handler

import (
	"net/http"

	"github.com/campus-portal-api/internal/application/cheating"
	fileapp "github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
)

// CheatingHandler serves cheating reports.
type CheatingHandler struct {
	svc cheating.Service
}

func NewCheatingHandler(svc cheating.Service) *CheatingHandler { return &CheatingHandler{svc: svc} }

// Report accepts JSON, or multipart form fields with an optional "proof" file.
func (h *CheatingHandler) Report(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		var req domain.CheatingReportInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.report(w, r, req, nil)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	req := domain.CheatingReportInput{
		StudentID:  r.FormValue("student_id"),
		Name:       r.FormValue("name"),
		Reason:     r.FormValue("reason"),
		ReportedBy: r.FormValue("reported_by"),
	}
	proof, f, err := formFile(r, "proof")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proof file")
		return
	}
	if f != nil {
		defer f.Close()
	}
	h.report(w, r, req, proof)
}

func (h *CheatingHandler) report(w http.ResponseWriter, r *http.Request, req domain.CheatingReportInput, proof *fileapp.UploadInput) {
	rep, err := h.svc.Report(r.Context(), req, proof)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Cheating report recorded", rep)
}

func (h *CheatingHandler) List(w http.ResponseWriter, r *http.Request) {
	reps, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", reps)
}
