package domain

import "time"

const anonymousName = "Anonymous"

type Complaint struct {
	ComplaintID  string    `json:"id" dynamodbav:"complaint_id"`
	StudentName  string    `json:"student_name" dynamodbav:"student_name"`
	StudentEmail string    `json:"student_email,omitempty" dynamodbav:"student_email"`
	Description  string    `json:"description" dynamodbav:"description"`
	IsAnonymous  bool      `json:"is_anonymous" dynamodbav:"is_anonymous"`
	MediaFileID  string    `json:"media_file_id,omitempty" dynamodbav:"media_file_id,omitempty"`
	Votes        int       `json:"votes" dynamodbav:"votes"`
	Status       string    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Public returns a copy safe for listing: anonymous complaints hide the filer.
func (c Complaint) Public() Complaint {
	if c.IsAnonymous {
		c.StudentName = anonymousName
		c.StudentEmail = ""
	}
	return c
}

type CreateComplaintRequest struct {
	StudentName  string `json:"student_name" validate:"required"`
	StudentEmail string `json:"student_email" validate:"required,email"`
	Description  string `json:"description" validate:"required"`
	IsAnonymous  bool   `json:"is_anonymous"`
}
