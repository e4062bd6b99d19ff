package domain

import "time"

type Candidate struct {
	CandidateID    string    `json:"id" dynamodbav:"candidate_id"`
	Name           string    `json:"name" dynamodbav:"name"`
	ProfilePhotoID string    `json:"profile_photo_id" dynamodbav:"profile_photo_id"`
	NarrativePDFID string    `json:"narrative_pdf_id" dynamodbav:"narrative_pdf_id"`
	MaleVotes      int       `json:"male_votes" dynamodbav:"male_votes"`
	FemaleVotes    int       `json:"female_votes" dynamodbav:"female_votes"`
	TotalVotes     int       `json:"total_votes" dynamodbav:"total_votes"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// VoteRequest identifies the voter by registration number or email.
type VoteRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

type VoteStatus struct {
	Identifier string `json:"identifier"`
	HasVoted   bool   `json:"has_voted"`
}

type ResetVoteRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	IsVoted    bool   `json:"is_voted"`
}
