package cheating

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/validate"
)

type Service interface {
	Report(ctx context.Context, req domain.CheatingReportInput, proof *file.UploadInput) (*domain.CheatingReport, error)
	List(ctx context.Context) ([]domain.CheatingReport, error)
}

type reportStore interface {
	Put(ctx context.Context, c *domain.CheatingReport) error
	List(ctx context.Context) ([]domain.CheatingReport, error)
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
}

type ServiceDeps struct {
	Repo  reportStore
	Files uploader
}

type service struct {
	repo  reportStore
	files uploader
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, files: deps.Files}
}

// Report records a cheating case. The store refuses a second report for
// the same student id with ErrConflict.
func (s *service) Report(ctx context.Context, req domain.CheatingReportInput, proof *file.UploadInput) (*domain.CheatingReport, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	r := &domain.CheatingReport{
		StudentID:    req.StudentID,
		Name:         req.Name,
		Reason:       req.Reason,
		ReportedBy:   req.ReportedBy,
		DateReported: time.Now().UTC(),
	}
	if proof != nil && proof.Reader != nil {
		proof.Purpose = domain.PurposeCheating
		proof.Owner = req.ReportedBy
		f, err := s.files.Upload(ctx, *proof)
		if err != nil {
			return nil, fmt.Errorf("upload proof: %w", err)
		}
		r.ProofFileID = f.FileID
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context) ([]domain.CheatingReport, error) {
	return s.repo.List(ctx)
}
