package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
)

// ExpenseRepository defines expense persistence operations. Every read and
// write is filtered by owner; a record owned by someone else is reported as
// apperrors.ErrNotFound, exactly like a missing one.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Expense, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input model.ExpenseInput) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type expenseRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *gorm.DB, timeout time.Duration) ExpenseRepository {
	return &expenseRepository{db: db, timeout: timeout}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Create(expense).Error
}

// ListByOwner returns the owner's expenses oldest first.
func (r *expenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Expense, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	expenses := make([]model.Expense, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Update rewrites title, amount and category. Id, owner and creation time never change.
func (r *expenseRepository) Update(ctx context.Context, ownerID, id uuid.UUID, input model.ExpenseInput) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	scope := r.ownedBy(ctx, ownerID, id)
	res := scope.Updates(map[string]interface{}{
		"title":      input.Title,
		"amount":     input.Amount,
		"category":   input.Category,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when nothing changed, so confirm the
	// row is really absent before reporting it.
	var count int64
	if err := r.ownedBy(ctx, ownerID, id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *expenseRepository) ownedBy(ctx context.Context, ownerID, id uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("id = ? AND user_id = ?", id, ownerID)
}
