package budget

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
	Create(ctx context.Context, req domain.BudgetInput, createdBy string) (*domain.Budget, error)
	Update(ctx context.Context, budgetID string, req domain.UpdateBudgetRequest) (*domain.Budget, error)
	List(ctx context.Context) ([]domain.Budget, error)
	Get(ctx context.Context, budgetID string) (*domain.Budget, error)
	Delete(ctx context.Context, budgetID string) error
	AddExpense(ctx context.Context, budgetID string, req domain.ExpenseInput, proof file.UploadInput) (*domain.Budget, error)
	VerifyExpense(ctx context.Context, budgetID, expenseID string) (*domain.Budget, error)
	Verify(ctx context.Context, budgetID string) (*domain.Budget, error)
}

type budgetStore interface {
	Create(ctx context.Context, b *domain.Budget) error
	Save(ctx context.Context, b *domain.Budget) error
	Get(ctx context.Context, budgetID string) (*domain.Budget, error)
	List(ctx context.Context) ([]domain.Budget, error)
	Delete(ctx context.Context, budgetID string) error
}

type uploader interface {
	Upload(ctx context.Context, input file.UploadInput) (*domain.File, error)
}

type ServiceDeps struct {
	Repo  budgetStore
	Files uploader
}

type service struct {
	repo  budgetStore
	files uploader
	now   func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, files: deps.Files, now: time.Now}
}

func (s *service) Create(ctx context.Context, req domain.BudgetInput, createdBy string) (*domain.Budget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := s.now().UTC()
	b := &domain.Budget{
		BudgetID:        id.New(),
		Title:           req.Title,
		Category:        req.Category,
		AmountAllocated: req.AmountAllocated,
		Sponsor:         req.Sponsor,
		CreatedBy:       createdBy,
		Expenses:        []domain.Expense{},
		Status:          domain.StatusUnverified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, budgetID string, req domain.UpdateBudgetRequest) (*domain.Budget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	b, err := s.repo.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.AmountAllocated != nil {
		b.AmountAllocated = *req.AmountAllocated
	}
	if req.Sponsor != nil {
		b.Sponsor = *req.Sponsor
	}
	return s.save(ctx, b)
}

func (s *service) List(ctx context.Context) ([]domain.Budget, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return s.repo.Get(ctx, budgetID)
}

func (s *service) Delete(ctx context.Context, budgetID string) error {
	return s.repo.Delete(ctx, budgetID)
}

// AddExpense appends an unverified expense with its proof and adds the
// amount to the running spend.
func (s *service) AddExpense(ctx context.Context, budgetID string, req domain.ExpenseInput, proof file.UploadInput) (*domain.Budget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if proof.Reader == nil {
		return nil, fmt.Errorf("proof file is required: %w", domain.ErrBadRequest)
	}
	b, err := s.repo.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	proof.Purpose = domain.PurposeExpense
	f, err := s.files.Upload(ctx, proof)
	if err != nil {
		return nil, fmt.Errorf("upload proof: %w", err)
	}
	b.Expenses = append(b.Expenses, domain.Expense{
		ExpenseID:   id.New(),
		Description: req.Description,
		Amount:      req.Amount,
		ProofFileID: f.FileID,
		Status:      domain.StatusUnverified,
		CreatedAt:   s.now().UTC(),
	})
	b.AmountSpent += req.Amount
	return s.save(ctx, b)
}

func (s *service) VerifyExpense(ctx context.Context, budgetID, expenseID string) (*domain.Budget, error) {
	b, err := s.repo.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	for i := range b.Expenses {
		if b.Expenses[i].ExpenseID == expenseID {
			b.Expenses[i].Status = domain.StatusVerified
			return s.save(ctx, b)
		}
	}
	return nil, fmt.Errorf("expense %s: %w", expenseID, domain.ErrNotFound)
}

func (s *service) Verify(ctx context.Context, budgetID string) (*domain.Budget, error) {
	b, err := s.repo.Get(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.Status = domain.StatusVerified
	return s.save(ctx, b)
}

func (s *service) save(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
