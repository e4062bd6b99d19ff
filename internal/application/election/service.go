// Package election runs the candidate ballot. A student votes once; the
// tally is split by the voter's gender.
package election

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
)

// Tally counters on the candidate item.
const (
	maleVotes   = "male_votes"
	femaleVotes = "female_votes"
	totalVotes  = "total_votes"
)

type Service interface {
	AddCandidate(ctx context.Context, name string, photo, narrative file.UploadInput) (*domain.Candidate, error)
	RemoveCandidate(ctx context.Context, candidateID string) error
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	Vote(ctx context.Context, candidateID string, req domain.VoteRequest, verificationToken string) error
	VoteStatus(ctx context.Context, identifier string) (*domain.VoteStatus, error)
	ResetVote(ctx context.Context, req domain.ResetVoteRequest) error
}

type candidateStore interface {
	Put(ctx context.Context, c *domain.Candidate) error
	Get(ctx context.Context, candidateID string) (*domain.Candidate, error)
	List(ctx context.Context) ([]domain.Candidate, error)
	Delete(ctx context.Context, candidateID string) error
	AddVotes(ctx context.Context, candidateID string, deltas map[string]int) error
}

type studentStore interface {
	GetByReg(ctx context.Context, reg string) (*domain.JobApplication, error)
	GetByEmail(ctx context.Context, email string) (*domain.JobApplication, error)
	Update(ctx context.Context, applicationID string, updates map[string]interface{}) error
	MarkVoted(ctx context.Context, applicationID string) error
}

type gatekeeper interface {
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
}

type ServiceDeps struct {
	Candidates candidateStore
	Students   studentStore
	Gate       gatekeeper
	Files      uploader
}

type service struct {
	candidates candidateStore
	students   studentStore
	gate       gatekeeper
	files      uploader
}

func NewService(deps ServiceDeps) Service {
	return &service{candidates: deps.Candidates, students: deps.Students, gate: deps.Gate, files: deps.Files}
}

func (s *service) AddCandidate(ctx context.Context, name string, photo, narrative file.UploadInput) (*domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("candidate name is required: %w", domain.ErrBadRequest)
	}
	if photo.Reader == nil || narrative.Reader == nil {
		return nil, fmt.Errorf("profile photo and narrative PDF are required: %w", domain.ErrBadRequest)
	}
	photo.Purpose, narrative.Purpose = domain.PurposeCandidate, domain.PurposeCandidate
	p, err := s.files.Upload(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	n, err := s.files.Upload(ctx, narrative)
	if err != nil {
		return nil, fmt.Errorf("upload narrative: %w", err)
	}
	c := &domain.Candidate{
		CandidateID:    id.New(),
		Name:           name,
		ProfilePhotoID: p.FileID,
		NarrativePDFID: n.FileID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.candidates.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) RemoveCandidate(ctx context.Context, candidateID string) error {
	return s.candidates.Delete(ctx, candidateID)
}

func (s *service) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	return s.candidates.List(ctx)
}

// Vote casts one ballot. The voter is found by registration number or
// email and must be verifying the email on their own record. MarkVoted is
// the single-vote guard; the tally is only bumped after it succeeds.
func (s *service) Vote(ctx context.Context, candidateID string, req domain.VoteRequest, verificationToken string) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	student, err := s.findStudent(ctx, req.Identifier)
	if err != nil {
		return err
	}
	email := domain.NormalizeEmail(req.Email)
	if student.Email != email {
		return fmt.Errorf("email does not belong to this student: %w", domain.ErrForbidden)
	}
	if student.IsVoted {
		return fmt.Errorf("student has already voted: %w", domain.ErrConflict)
	}
	deltas, err := tallyFor(student.Gender)
	if err != nil {
		return err
	}
	if _, err := s.candidates.Get(ctx, candidateID); err != nil {
		return err
	}
	return s.gate.Do(ctx, email, verificationToken, func(ctx context.Context) error {
		if err := s.students.MarkVoted(ctx, student.ApplicationID); err != nil {
			return err
		}
		return s.candidates.AddVotes(ctx, candidateID, deltas)
	})
}

func (s *service) VoteStatus(ctx context.Context, identifier string) (*domain.VoteStatus, error) {
	student, err := s.findStudent(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &domain.VoteStatus{Identifier: identifier, HasVoted: student.IsVoted}, nil
}

func (s *service) ResetVote(ctx context.Context, req domain.ResetVoteRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	student, err := s.findStudent(ctx, req.Identifier)
	if err != nil {
		return err
	}
	return s.students.Update(ctx, student.ApplicationID, map[string]interface{}{"is_voted": req.IsVoted})
}

func (s *service) findStudent(ctx context.Context, identifier string) (*domain.JobApplication, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required: %w", domain.ErrBadRequest)
	}
	st, err := s.students.GetByReg(ctx, identifier)
	if err == nil || !errors.Is(err, domain.ErrNotFound) || !strings.Contains(identifier, "@") {
		return st, err
	}
	return s.students.GetByEmail(ctx, domain.NormalizeEmail(identifier))
}

func tallyFor(gender string) (map[string]int, error) {
	switch gender {
	case domain.GenderMale:
		return map[string]int{maleVotes: 1, totalVotes: 1}, nil
	case domain.GenderFemale:
		return map[string]int{femaleVotes: 1, totalVotes: 1}, nil
	}
	return nil, fmt.Errorf("gender %q cannot be tallied: %w", gender, domain.ErrBadRequest)
}
