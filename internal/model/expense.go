package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts go over the wire as JSON numbers so clients can sum them directly.
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	Title     string          `json:"title" gorm:"size:255;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Category  string          `json:"category" gorm:"size:100;not null"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpenseInput holds the mutable fields of an expense.
type ExpenseInput struct {
	Title    string
	Amount   decimal.Decimal
	Category string
}
