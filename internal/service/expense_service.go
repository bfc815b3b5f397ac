package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
)

const (
	minTitleLength    = 2
	maxTitleLength    = 255
	maxCategoryLength = 100
	// amountScale matches the decimal(20,2) amount column.
	amountScale = 2
)

// maxAmount is the exclusive upper bound of a decimal(20,2) column.
var maxAmount = decimal.New(1, 18)

// ExpenseService exposes owner-scoped expense operations.
type ExpenseService interface {
	Add(ctx context.Context, ownerID uuid.UUID, input model.ExpenseInput) (*model.Expense, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Expense, error)
	Update(ctx context.Context, ownerID uuid.UUID, expenseID string, input model.ExpenseInput) error
	Delete(ctx context.Context, ownerID uuid.UUID, expenseID string) error
}

type expenseService struct {
	repo repository.ExpenseRepository
}

// NewExpenseService creates a new expense service.
func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

// Add stores a new expense for ownerID.
func (s *expenseService) Add(ctx context.Context, ownerID uuid.UUID, input model.ExpenseInput) (*model.Expense, error) {
	input, err := normalizeExpense(input)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		ID:       uuid.New(),
		UserID:   ownerID,
		Title:    input.Title,
		Amount:   input.Amount,
		Category: input.Category,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Expense, error) {
	expenses, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Update rewrites an expense owned by ownerID. A malformed id, a missing
// expense and someone else's expense all yield ErrNotFound.
func (s *expenseService) Update(ctx context.Context, ownerID uuid.UUID, expenseID string, input model.ExpenseInput) error {
	id, err := uuid.Parse(expenseID)
	if err != nil {
		return apperrors.ErrNotFound
	}
	input, err = normalizeExpense(input)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, ownerID, id, input); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete removes an expense owned by ownerID, with the same not-found rules as Update.
func (s *expenseService) Delete(ctx context.Context, ownerID uuid.UUID, expenseID string) error {
	id, err := uuid.Parse(expenseID)
	if err != nil {
		return apperrors.ErrNotFound
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func normalizeExpense(input model.ExpenseInput) (model.ExpenseInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)

	fields := map[string]string{}
	switch n := utf8.RuneCountInString(input.Title); {
	case n < minTitleLength:
		fields["title"] = "title must be at least 2 characters"
	case n > maxTitleLength:
		fields["title"] = "title must be at most 255 characters"
	}
	switch {
	case !input.Amount.IsPositive():
		fields["amount"] = "amount must be greater than zero"
	case !input.Amount.Equal(input.Amount.Truncate(amountScale)):
		fields["amount"] = "amount must have at most 2 decimal places"
	case input.Amount.GreaterThanOrEqual(maxAmount):
		fields["amount"] = "amount is too large"
	}
	switch {
	case input.Category == "":
		fields["category"] = "category is required"
	case utf8.RuneCountInString(input.Category) > maxCategoryLength:
		fields["category"] = "category must be at most 100 characters"
	}
	if len(fields) > 0 {
		return input, &apperrors.ValidationError{Fields: fields}
	}
	return input, nil
}
