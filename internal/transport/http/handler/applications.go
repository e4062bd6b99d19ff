package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-portal-api/internal/application/jobapp"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ApplicationHandler serves job applications.
type ApplicationHandler struct {
	svc jobapp.Service
}

func NewApplicationHandler(svc jobapp.Service) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type submitApplicationBody struct {
	domain.CreateApplicationRequest
	VerificationToken string `json:"verification_token"`
}

// Submit accepts JSON, or multipart with the JSON in a "data" field and
// any number of "proofs" files.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitApplicationBody
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid data field")
			return
		}
		if body.VerificationToken == "" {
			body.VerificationToken = r.FormValue("verification_token")
		}
	} else if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	proofs, open, err := formFiles(r, "proofs")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proof file")
		return
	}
	defer closeAll(open)

	app, err := h.svc.Submit(r.Context(), body.CreateApplicationRequest, verificationToken(r, body.VerificationToken), proofs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Application submitted successfully", app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", apps)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", app)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Application updated", app)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Application deleted"})
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.StatusInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Status updated", app)
}
