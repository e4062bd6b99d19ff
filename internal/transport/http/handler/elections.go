package handler

import (
	"net/http"

	"github.com/campus-portal-api/internal/application/election"
	"github.com/campus-portal-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ElectionHandler serves candidates and voting.
type ElectionHandler struct {
	svc election.Service
}

func NewElectionHandler(svc election.Service) *ElectionHandler { return &ElectionHandler{svc: svc} }

func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCandidates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", cs)
}

// AddCandidate expects multipart with "name", "profilePhoto" and "narrativePDF".
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	photo, pf, err := formFile(r, "profilePhoto")
	if err != nil || photo == nil {
		writeError(w, http.StatusBadRequest, "profilePhoto is required")
		return
	}
	defer pf.Close()
	narrative, nf, err := formFile(r, "narrativePDF")
	if err != nil || narrative == nil {
		writeError(w, http.StatusBadRequest, "narrativePDF is required")
		return
	}
	defer nf.Close()

	c, err := h.svc.AddCandidate(r.Context(), r.FormValue("name"), *photo, *narrative)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Candidate added", c)
}

func (h *ElectionHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCandidate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Candidate removed"})
}

type voteBody struct {
	domain.VoteRequest
	VerificationToken string `json:"verification_token"`
}

func (h *ElectionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var body voteBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.svc.Vote(r.Context(), chi.URLParam(r, "id"), body.VoteRequest, verificationToken(r, body.VerificationToken))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Vote recorded"})
}

func (h *ElectionHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.VoteStatus(r.Context(), r.URL.Query().Get("identifier"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", st)
}

func (h *ElectionHandler) ResetVote(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.ResetVote(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Vote status updated"})
}
