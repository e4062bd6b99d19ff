package domain

import "time"

// CheatingReport is keyed by the reported student's id, so a student
// appears at most once.
type CheatingReport struct {
	StudentID    string    `json:"student_id" dynamodbav:"student_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Reason       string    `json:"reason" dynamodbav:"reason"`
	ReportedBy   string    `json:"reported_by" dynamodbav:"reported_by"`
	ProofFileID  string    `json:"proof_file_id,omitempty" dynamodbav:"proof_file_id,omitempty"`
	DateReported time.Time `json:"date_reported" dynamodbav:"date_reported"`
}

type CheatingReportInput struct {
	StudentID  string `json:"student_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	ReportedBy string `json:"reported_by" validate:"required"`
}
