package domain

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// JobApplication is the student record. Elections look students up by
// registration number or email and flip IsVoted once.
type JobApplication struct {
	ApplicationID string    `json:"id" dynamodbav:"application_id"`
	Reg           string    `json:"reg" dynamodbav:"reg"`
	FullName      string    `json:"full_name" dynamodbav:"full_name"`
	Email         string    `json:"email" dynamodbav:"email"`
	ParentEmail   string    `json:"parent_email" dynamodbav:"parent_email"`
	HeadEmail     string    `json:"head_email" dynamodbav:"head_email"`
	Phone         string    `json:"phone" dynamodbav:"phone"`
	DOB           string    `json:"dob" dynamodbav:"dob"`
	Gender        string    `json:"gender" dynamodbav:"gender"`
	Branch        string    `json:"branch" dynamodbav:"branch"`
	CGPA          float64   `json:"cgpa" dynamodbav:"cgpa"`
	SSC           float64   `json:"ssc" dynamodbav:"ssc"`
	HSC           float64   `json:"hsc" dynamodbav:"hsc"`
	Projects      string    `json:"projects" dynamodbav:"projects"`
	Internship    string    `json:"internship" dynamodbav:"internship"`
	GapYear       int       `json:"gap_year" dynamodbav:"gap_year"`
	Address       string    `json:"address" dynamodbav:"address"`
	Skills        []string  `json:"skills" dynamodbav:"skills"`
	References    string    `json:"references" dynamodbav:"references"`
	Backlogs      int       `json:"backlogs" dynamodbav:"backlogs"`
	ProofFileIDs  []string  `json:"proof_file_ids,omitempty" dynamodbav:"proof_file_ids,omitempty"`
	IsVoted       bool      `json:"is_voted" dynamodbav:"is_voted"`
	Status        string    `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateApplicationRequest struct {
	Reg         string   `json:"reg" validate:"required"`
	FullName    string   `json:"full_name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	ParentEmail string   `json:"parent_email" validate:"omitempty,email"`
	HeadEmail   string   `json:"head_email" validate:"omitempty,email"`
	Phone       string   `json:"phone"`
	DOB         string   `json:"dob"` // expected format: YYYY-MM-DD
	Gender      string   `json:"gender" validate:"required,oneof=Male Female Other"`
	Branch      string   `json:"branch" validate:"required"`
	CGPA        float64  `json:"cgpa" validate:"gte=0,lte=10"`
	SSC         float64  `json:"ssc" validate:"gte=0,lte=100"`
	HSC         float64  `json:"hsc" validate:"gte=0,lte=100"`
	Projects    string   `json:"projects"`
	Internship  string   `json:"internship"`
	GapYear     int      `json:"gap_year" validate:"gte=0"`
	Address     string   `json:"address"`
	Skills      []string `json:"skills"`
	References  string   `json:"references"`
	Backlogs    int      `json:"backlogs" validate:"gte=0"`
}

type UpdateApplicationRequest struct {
	FullName    *string   `json:"full_name"`
	ParentEmail *string   `json:"parent_email" validate:"omitempty,email"`
	HeadEmail   *string   `json:"head_email" validate:"omitempty,email"`
	Phone       *string   `json:"phone"`
	Branch      *string   `json:"branch"`
	CGPA        *float64  `json:"cgpa" validate:"omitempty,gte=0,lte=10"`
	Address     *string   `json:"address"`
	Skills      *[]string `json:"skills"`
	Backlogs    *int      `json:"backlogs" validate:"omitempty,gte=0"`
}
