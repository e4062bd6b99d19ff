// Package leave handles regular and sick leave applications and the
// admin decisions on them.
package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
)

type Service interface {
	Apply(ctx context.Context, req domain.CreateLeaveRequest, verificationToken string, proof *file.UploadInput) (*domain.Leave, error)
	ApplySick(ctx context.Context, req domain.CreateSickLeaveRequest, verificationToken string) (*domain.Leave, error)
	List(ctx context.Context, kind string) ([]domain.Leave, error)
	UpdateStatus(ctx context.Context, leaveID, status string) (*domain.Leave, error)
	SendDoctorNote(ctx context.Context, req domain.DoctorNoteRequest) error
}

type leaveStore interface {
	Put(ctx context.Context, l *domain.Leave) error
	Get(ctx context.Context, leaveID string) (*domain.Leave, error)
	ListByKind(ctx context.Context, kind string) ([]domain.Leave, error)
	UpdateStatus(ctx context.Context, leaveID, status string) error
}

type studentStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.JobApplication, error)
}

type gatekeeper interface {
	Do(ctx context.Context, email, tok string, action func(context.Context) error) error
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
	UploadBase64(ctx context.Context, filename, base64Data, purpose, owner string) (*domain.File, error)
}

type notifier interface {
	Email(ctx context.Context, to, subject, body string)
	StatusChanged(ctx context.Context, to, resource, status string)
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type ServiceDeps struct {
	Repo     leaveStore
	Students studentStore
	Gate     gatekeeper
	Files    uploader
	Notifier notifier
	Mailer   mailer
}

type service struct {
	repo     leaveStore
	students studentStore
	gate     gatekeeper
	files    uploader
	notifier notifier
	mailer   mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.Repo,
		students: deps.Students,
		gate:     deps.Gate,
		files:    deps.Files,
		notifier: deps.Notifier,
		mailer:   deps.Mailer,
	}
}

func (s *service) Apply(ctx context.Context, req domain.CreateLeaveRequest, verificationToken string, proof *file.UploadInput) (*domain.Leave, error) {
	l, err := newLeave(domain.LeaveKindRegular, req)
	if err != nil {
		return nil, err
	}
	err = s.gate.Do(ctx, l.Email, verificationToken, func(ctx context.Context) error {
		if proof != nil && proof.Reader != nil {
			proof.Purpose = domain.PurposeLeave
			proof.Owner = l.Email
			f, err := s.files.Upload(ctx, *proof)
			if err != nil {
				return fmt.Errorf("upload proof: %w", err)
			}
			l.ProofFileID = f.FileID
		}
		return s.repo.Put(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ApplySick(ctx context.Context, req domain.CreateSickLeaveRequest, verificationToken string) (*domain.Leave, error) {
	l, err := newLeave(domain.LeaveKindSick, req.CreateLeaveRequest)
	if err != nil {
		return nil, err
	}
	if req.MedicalProof == "" {
		return nil, fmt.Errorf("medical proof is required: %w", domain.ErrBadRequest)
	}
	name := req.MedicalProofName
	if name == "" {
		name = "medical-proof"
	}
	err = s.gate.Do(ctx, l.Email, verificationToken, func(ctx context.Context) error {
		f, err := s.files.UploadBase64(ctx, name, req.MedicalProof, domain.PurposeSickLeave, l.Email)
		if err != nil {
			return fmt.Errorf("upload medical proof: %w", err)
		}
		l.ProofFileID = f.FileID
		return s.repo.Put(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) List(ctx context.Context, kind string) ([]domain.Leave, error) {
	if kind != domain.LeaveKindRegular && kind != domain.LeaveKindSick {
		return nil, fmt.Errorf("unknown leave kind %q: %w", kind, domain.ErrBadRequest)
	}
	return s.repo.ListByKind(ctx, kind)
}

// UpdateStatus records the decision and mails the applicant. For sick
// leave the head of department on the student's application is told too.
func (s *service) UpdateStatus(ctx context.Context, leaveID, status string) (*domain.Leave, error) {
	status, err := domain.ParseDecision(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, leaveID, status); err != nil {
		return nil, err
	}
	l, err := s.repo.Get(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	resource := "leave request"
	if l.Kind == domain.LeaveKindSick {
		resource = "sick leave request"
	}
	s.notifier.StatusChanged(ctx, l.Email, resource, status)
	if l.Kind == domain.LeaveKindSick {
		s.notifyHead(ctx, l, status)
	}
	return l, nil
}

func (s *service) notifyHead(ctx context.Context, l *domain.Leave, status string) {
	app, err := s.students.GetByEmail(ctx, l.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("head lookup failed", "leave_id", l.LeaveID, "err", err)
		}
		return
	}
	s.notifier.Email(ctx, app.HeadEmail,
		fmt.Sprintf("Sick leave %s for %s", status, l.Name),
		fmt.Sprintf("The sick leave of %s (%s) from %s to %s has been %s.", l.Name, l.Email, l.StartDate, l.EndDate, status))
}

func (s *service) SendDoctorNote(ctx context.Context, req domain.DoctorNoteRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	body := fmt.Sprintf("Dear Student,\n\nYour doctor's note:\n\n%q\n\nBest Regards,\nAdmin", req.Message)
	if err := s.mailer.SendEmail(ctx, domain.NormalizeEmail(req.Email), "Doctor's Note for Your Sick Leave", body); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrMailDispatchFailed)
	}
	return nil
}

func newLeave(kind string, req domain.CreateLeaveRequest) (*domain.Leave, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if req.EndDate < req.StartDate {
		return nil, fmt.Errorf("end date is before start date: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	return &domain.Leave{
		LeaveID:   id.New(),
		Kind:      kind,
		Name:      req.Name,
		Email:     domain.NormalizeEmail(req.Email),
		Reason:    req.Reason,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.StatusPending,
		AppliedAt: now,
		UpdatedAt: now,
	}, nil
}
