package domain

import "time"

// File is the metadata row for a proof document stored in S3.
// Owner is the email (students) or admin id that uploaded it.
type File struct {
	FileID    string    `json:"id" dynamodbav:"file_id"`
	Object    string    `json:"object" dynamodbav:"object"`
	Size      int64     `json:"size" dynamodbav:"size"`
	Type      string    `json:"type" dynamodbav:"type"`
	Name      string    `json:"name" dynamodbav:"name"`
	Hash      string    `json:"hash" dynamodbav:"hash"`
	Purpose   string    `json:"purpose" dynamodbav:"purpose"`
	Owner     string    `json:"owner" dynamodbav:"owner"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Upload purposes, used as the S3 key prefix.
const (
	PurposeApplication = "applications"
	PurposeCandidate   = "candidates"
	PurposeLeave       = "leaves"
	PurposeSickLeave   = "sick-leaves"
	PurposeComplaint   = "complaints"
	PurposeExpense     = "expenses"
	PurposeCheating    = "cheating"
)
