package domain

import "time"

const (
	LeaveKindRegular = "leave"
	LeaveKindSick    = "sick"
)

// Leave covers both regular and sick leave; Kind tells them apart.
type Leave struct {
	LeaveID     string    `json:"id" dynamodbav:"leave_id"`
	Kind        string    `json:"kind" dynamodbav:"kind"`
	Name        string    `json:"name" dynamodbav:"name"`
	Email       string    `json:"email" dynamodbav:"email"`
	Reason      string    `json:"reason" dynamodbav:"reason"`
	StartDate   string    `json:"start_date" dynamodbav:"start_date"`
	EndDate     string    `json:"end_date" dynamodbav:"end_date"`
	ProofFileID string    `json:"proof_file_id,omitempty" dynamodbav:"proof_file_id,omitempty"`
	Status      string    `json:"status" dynamodbav:"status"`
	AppliedAt   time.Time `json:"applied_at" dynamodbav:"applied_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateLeaveRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Reason    string `json:"reason" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// CreateSickLeaveRequest carries the medical proof inline as base64.
type CreateSickLeaveRequest struct {
	CreateLeaveRequest
	MedicalProof     string `json:"medical_proof"`
	MedicalProofName string `json:"medical_proof_name"`
}

type DoctorNoteRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}
