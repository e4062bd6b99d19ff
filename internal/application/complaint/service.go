package complaint

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
)

type Service interface {
	File(ctx context.Context, req domain.CreateComplaintRequest, verificationToken string, media *file.UploadInput) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	Upvote(ctx context.Context, complaintID string) error
	UpdateStatus(ctx context.Context, complaintID, status string) (*domain.Complaint, error)
}

type complaintStore interface {
	Put(ctx context.Context, c *domain.Complaint) error
	Get(ctx context.Context, complaintID string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, complaintID, status string) error
	Upvote(ctx context.Context, complaintID string) error
}

type gatekeeper interface {
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
}

type notifier interface {
	StatusChanged(ctx context.Context, to, resource, status string)
}

type ServiceDeps struct {
	Repo     complaintStore
	Gate     gatekeeper
	Files    uploader
	Notifier notifier
}

type service struct {
	repo     complaintStore
	gate     gatekeeper
	files    uploader
	notifier notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, gate: deps.Gate, files: deps.Files, notifier: deps.Notifier}
}

// File records a complaint from a verified email. Anonymous complaints
// still keep the filer's email so status updates can reach them, but it
// is never listed.
func (s *service) File(ctx context.Context, req domain.CreateComplaintRequest, verificationToken string, media *file.UploadInput) (*domain.Complaint, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	email := domain.NormalizeEmail(req.StudentEmail)
	now := time.Now().UTC()
	c := &domain.Complaint{
		ComplaintID:  id.New(),
		StudentName:  req.StudentName,
		StudentEmail: email,
		Description:  req.Description,
		IsAnonymous:  req.IsAnonymous,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.gate.Do(ctx, email, verificationToken, func(ctx context.Context) error {
		if media != nil && media.Reader != nil {
			media.Purpose = domain.PurposeComplaint
			media.Owner = email
			f, err := s.files.Upload(ctx, *media)
			if err != nil {
				return fmt.Errorf("upload media: %w", err)
			}
			c.MediaFileID = f.FileID
		}
		return s.repo.Put(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]domain.Complaint, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Complaint, 0, len(all))
	for _, c := range all {
		out = append(out, c.Public())
	}
	return out, nil
}

func (s *service) Upvote(ctx context.Context, complaintID string) error {
	return s.repo.Upvote(ctx, complaintID)
}

func (s *service) UpdateStatus(ctx context.Context, complaintID, status string) (*domain.Complaint, error) {
	status, err := domain.ParseComplaintStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, complaintID, status); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(ctx, c.StudentEmail, "complaint", status)
	pub := c.Public()
	return &pub, nil
}
