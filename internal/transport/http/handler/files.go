package handler

import (
	"io"
	"net/http"
	"time"

	fileapp "github.com/campus-portal-api/internal/application/file"
	"github.com/go-chi/chi/v5"
)

// FileHandler serves stored proof documents to admins.
type FileHandler struct {
	svc fileapp.Service
}

func NewFileHandler(svc fileapp.Service) *FileHandler { return &FileHandler{svc: svc} }

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, f, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", f.Type)
	w.Header().Set("Content-Disposition", `inline; filename="`+f.Name+`"`)
	_, _ = io.Copy(w, rc)
}

// Link returns a short-lived presigned URL instead of streaming the body.
func (h *FileHandler) Link(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Link(r.Context(), chi.URLParam(r, "id"), 15*time.Minute)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]string{"url": url})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "File deleted"})
}
