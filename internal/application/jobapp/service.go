// Package jobapp manages student job applications. Submitting one is a
// gated action: the caller must present a fresh verification token for
// the application's email.
package jobapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
)

type Service interface {
	Submit(ctx context.Context, req domain.CreateApplicationRequest, verificationToken string, proofs []file.UploadInput) (*domain.JobApplication, error)
	List(ctx context.Context) ([]domain.JobApplication, error)
	Get(ctx context.Context, applicationID string) (*domain.JobApplication, error)
	Update(ctx context.Context, applicationID string, req domain.UpdateApplicationRequest) (*domain.JobApplication, error)
	Delete(ctx context.Context, applicationID string) error
	UpdateStatus(ctx context.Context, applicationID, status string) (*domain.JobApplication, error)
}

type applicationStore interface {
	Put(ctx context.Context, a *domain.JobApplication) error
	Get(ctx context.Context, applicationID string) (*domain.JobApplication, error)
	GetByEmail(ctx context.Context, email string) (*domain.JobApplication, error)
	List(ctx context.Context) ([]domain.JobApplication, error)
	Update(ctx context.Context, applicationID string, updates map[string]interface{}) error
	Delete(ctx context.Context, applicationID string) error
}

type gatekeeper interface {
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
}

type notifier interface {
	StatusChanged(ctx context.Context, to, resource, status string)
	SMS(ctx context.Context, phone, message string)
}

type ServiceDeps struct {
	Repo     applicationStore
	Gate     gatekeeper
	Files    uploader
	Notifier notifier
}

type service struct {
	repo     applicationStore
	gate     gatekeeper
	files    uploader
	notifier notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, gate: deps.Gate, files: deps.Files, notifier: deps.Notifier}
}

func (s *service) Submit(ctx context.Context, req domain.CreateApplicationRequest, verificationToken string, proofs []file.UploadInput) (*domain.JobApplication, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("an application for this email already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	app := &domain.JobApplication{
		ApplicationID: id.New(),
		Reg:           req.Reg,
		FullName:      req.FullName,
		Email:         email,
		ParentEmail:   domain.NormalizeEmail(req.ParentEmail),
		HeadEmail:     domain.NormalizeEmail(req.HeadEmail),
		Phone:         req.Phone,
		DOB:           req.DOB,
		Gender:        req.Gender,
		Branch:        req.Branch,
		CGPA:          req.CGPA,
		SSC:           req.SSC,
		HSC:           req.HSC,
		Projects:      req.Projects,
		Internship:    req.Internship,
		GapYear:       req.GapYear,
		Address:       req.Address,
		Skills:        req.Skills,
		References:    req.References,
		Backlogs:      req.Backlogs,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.gate.Do(ctx, email, verificationToken, func(ctx context.Context) error {
		for _, p := range proofs {
			p.Purpose = domain.PurposeApplication
			p.Owner = email
			f, err := s.files.Upload(ctx, p)
			if err != nil {
				return fmt.Errorf("upload proof %q: %w", p.Filename, err)
			}
			app.ProofFileIDs = append(app.ProofFileIDs, f.FileID)
		}
		return s.repo.Put(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *service) List(ctx context.Context) ([]domain.JobApplication, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	return s.repo.Get(ctx, applicationID)
}

func (s *service) Update(ctx context.Context, applicationID string, req domain.UpdateApplicationRequest) (*domain.JobApplication, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.ParentEmail != nil {
		updates["parent_email"] = domain.NormalizeEmail(*req.ParentEmail)
	}
	if req.HeadEmail != nil {
		updates["head_email"] = domain.NormalizeEmail(*req.HeadEmail)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Branch != nil {
		updates["branch"] = *req.Branch
	}
	if req.CGPA != nil {
		updates["cgpa"] = *req.CGPA
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Skills != nil {
		updates["skills"] = *req.Skills
	}
	if req.Backlogs != nil {
		updates["backlogs"] = *req.Backlogs
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, applicationID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, applicationID)
}

func (s *service) Delete(ctx context.Context, applicationID string) error {
	return s.repo.Delete(ctx, applicationID)
}

// UpdateStatus records the admin decision and tells the student by mail,
// and by SMS when a phone number is on file.
func (s *service) UpdateStatus(ctx context.Context, applicationID, status string) (*domain.JobApplication, error) {
	status, err := domain.ParseDecision(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, applicationID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	app, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(ctx, app.Email, "job application", status)
	s.notifier.SMS(ctx, app.Phone, fmt.Sprintf("Your job application is now %s.", status))
	return app, nil
}
