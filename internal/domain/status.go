package domain

import "fmt"

// Review statuses toggled by admins across all resources.
const (
	StatusPending    = "Pending"
	StatusApproved   = "Approved"
	StatusRejected   = "Rejected"
	StatusVerified   = "Verified"
	StatusUnverified = "Unverified"
	StatusResolved   = "Resolved"
)

type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ParseDecision accepts only the admin decisions Approved and Rejected.
func ParseDecision(status string) (string, error) {
	switch status {
	case StatusApproved, StatusRejected:
		return status, nil
	}
	return "", fmt.Errorf("status must be %s or %s: %w", StatusApproved, StatusRejected, ErrBadRequest)
}

// ParseComplaintStatus accepts the statuses a complaint may move to.
func ParseComplaintStatus(status string) (string, error) {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusResolved:
		return status, nil
	}
	return "", fmt.Errorf("unknown complaint status %q: %w", status, ErrBadRequest)
}
