package handler

import (
	"net/http"

	"github.com/campus-portal-api/internal/application/otp"
	"github.com/campus-portal-api/internal/domain"
)

// OTPHandler serves sendOtp and verifyOtp.
type OTPHandler struct {
	issuer   otp.Issuer
	verifier otp.Verifier
}

func NewOTPHandler(issuer otp.Issuer, verifier otp.Verifier) *OTPHandler {
	return &OTPHandler{issuer: issuer, verifier: verifier}
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, OTPEnvelope{Error: "invalid request body"})
		return
	}
	issued, err := h.issuer.Issue(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{Success: true, Message: "OTP sent successfully", ExpiresAt: &issued.ExpiresAt})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, OTPEnvelope{Error: "invalid request body"})
		return
	}
	v, err := h.verifier.Verify(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{
		Success:           true,
		Message:           "OTP verified successfully",
		VerificationToken: v.Token,
		ExpiresAt:         &v.ExpiresAt,
	})
}

func (h *OTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpError(err)
	if status == http.StatusInternalServerError {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, OTPEnvelope{Message: err.Error(), Error: err.Error()})
}
