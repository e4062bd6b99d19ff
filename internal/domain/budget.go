package domain

import "time"

type Expense struct {
	ExpenseID   string    `json:"id" dynamodbav:"expense_id"`
	Description string    `json:"description" dynamodbav:"description"`
	Amount      float64   `json:"amount" dynamodbav:"amount"`
	ProofFileID string    `json:"proof_file_id,omitempty" dynamodbav:"proof_file_id,omitempty"`
	Status      string    `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

type Budget struct {
	BudgetID        string    `json:"id" dynamodbav:"budget_id"`
	Title           string    `json:"title" dynamodbav:"title"`
	Category        string    `json:"category" dynamodbav:"category"`
	AmountAllocated float64   `json:"amount_allocated" dynamodbav:"amount_allocated"`
	AmountSpent     float64   `json:"amount_spent" dynamodbav:"amount_spent"`
	Sponsor         string    `json:"sponsor" dynamodbav:"sponsor"`
	CreatedBy       string    `json:"created_by" dynamodbav:"created_by"`
	Expenses        []Expense `json:"expenses" dynamodbav:"expenses"`
	Status          string    `json:"status" dynamodbav:"status"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Remaining is the allocation not yet spent.
func (b *Budget) Remaining() float64 {
	return b.AmountAllocated - b.AmountSpent
}

type BudgetInput struct {
	Title           string  `json:"title" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	AmountAllocated float64 `json:"amount_allocated" validate:"gt=0"`
	Sponsor         string  `json:"sponsor"`
}

type UpdateBudgetRequest struct {
	Title           *string  `json:"title"`
	Category        *string  `json:"category"`
	AmountAllocated *float64 `json:"amount_allocated" validate:"omitempty,gt=0"`
	Sponsor         *string  `json:"sponsor"`
}

type ExpenseInput struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}
