package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"expensetracker/internal/db"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
)

// RepositoryTestSuite runs the GORM repositories against in-memory sqlite.
type RepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	users    UserRepository
	expenses ExpenseRepository
	ctx      context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	gormDB, err := db.NewSQLite(":memory:", db.Options{})
	require.NoError(s.T(), err, "failed to open test database")
	require.NoError(s.T(), db.Migrate(gormDB, false))

	s.db = gormDB
	s.users = NewUserRepository(gormDB, time.Second)
	s.expenses = NewExpenseRepository(gormDB, time.Second)
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.db != nil {
		_ = db.Close(s.db)
	}
}

func (s *RepositoryTestSuite) createUser(name, email string) *model.User {
	user := &model.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(s.T(), s.users.Create(s.ctx, user))
	return user
}

func (s *RepositoryTestSuite) createExpense(owner uuid.UUID, title, amount, category string) *model.Expense {
	expense := &model.Expense{
		UserID:   owner,
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
	require.NoError(s.T(), s.expenses.Create(s.ctx, expense))
	return expense
}

func (s *RepositoryTestSuite) TestUserCreateAndFind() {
	user := s.createUser("Alice", "alice@x.com")
	assert.NotEqual(s.T(), uuid.Nil, user.ID)

	byID, err := s.users.FindByID(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice@x.com", byID.Email)

	byEmail, err := s.users.FindByEmail(s.ctx, "alice@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, byEmail.ID)
}

func (s *RepositoryTestSuite) TestUserFindMissing() {
	_, err := s.users.FindByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	_, err = s.users.FindByEmail(s.ctx, "nobody@x.com")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUserCreateDuplicateEmail() {
	first := s.createUser("Alice", "alice@x.com")

	err := s.users.Create(s.ctx, &model.User{Name: "Impostor", Email: "alice@x.com", PasswordHash: "other"})
	assert.ErrorIs(s.T(), err, apperrors.ErrEmailTaken)

	var count int64
	require.NoError(s.T(), s.db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(s.T(), int64(1), count, "a rejected registration must not write")

	stored, err := s.users.FindByEmail(s.ctx, "alice@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), first.ID, stored.ID)
	assert.Equal(s.T(), "Alice", stored.Name)
}

func (s *RepositoryTestSuite) TestUserUpdateProfile() {
	user := s.createUser("Alice", "alice@x.com")

	updated, err := s.users.UpdateProfile(s.ctx, user.ID, "Alice B", "alice.b@x.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alice B", updated.Name)
	assert.Equal(s.T(), "alice.b@x.com", updated.Email)
	assert.Equal(s.T(), "hash", updated.PasswordHash, "password must not change")

	// Same values again still succeeds.
	_, err = s.users.UpdateProfile(s.ctx, user.ID, "Alice B", "alice.b@x.com")
	assert.NoError(s.T(), err)

	_, err = s.users.UpdateProfile(s.ctx, uuid.New(), "Ghost", "ghost@x.com")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUserDelete() {
	user := s.createUser("Alice", "alice@x.com")

	require.NoError(s.T(), s.users.Delete(s.ctx, user.ID))
	_, err := s.users.FindByID(s.ctx, user.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	assert.ErrorIs(s.T(), s.users.Delete(s.ctx, user.ID), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUserDeleteKeepsExpenses() {
	user := s.createUser("Alice", "alice@x.com")
	s.createExpense(user.ID, "Coffee", "4.50", "Food")

	require.NoError(s.T(), s.users.Delete(s.ctx, user.ID))

	list, err := s.expenses.ListByOwner(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1, "expenses are not cascade-deleted")
}

func (s *RepositoryTestSuite) TestExpenseRoundTrip() {
	owner := uuid.New()
	created := s.createExpense(owner, "Coffee", "4.50", "Food")
	assert.NotEqual(s.T(), uuid.Nil, created.ID)
	assert.False(s.T(), created.CreatedAt.IsZero())

	list, err := s.expenses.ListByOwner(s.ctx, owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), created.ID, list[0].ID)
	assert.Equal(s.T(), owner, list[0].UserID)
	assert.Equal(s.T(), "Coffee", list[0].Title)
	assert.True(s.T(), decimal.RequireFromString("4.50").Equal(list[0].Amount), "amount %s", list[0].Amount)
	assert.Equal(s.T(), "Food", list[0].Category)

	err = s.expenses.Update(s.ctx, owner, created.ID, model.ExpenseInput{
		Title:    "Coffee Large",
		Amount:   decimal.RequireFromString("5.00"),
		Category: "Drinks",
	})
	require.NoError(s.T(), err)

	list, err = s.expenses.ListByOwner(s.ctx, owner)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Coffee Large", list[0].Title)
	assert.True(s.T(), decimal.NewFromInt(5).Equal(list[0].Amount))
	assert.Equal(s.T(), "Drinks", list[0].Category)
	assert.Equal(s.T(), created.ID, list[0].ID)
	assert.Equal(s.T(), owner, list[0].UserID)

	require.NoError(s.T(), s.expenses.Delete(s.ctx, owner, created.ID))
	list, err = s.expenses.ListByOwner(s.ctx, owner)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *RepositoryTestSuite) TestExpenseOwnershipIsolation() {
	alice, bob := uuid.New(), uuid.New()
	coffee := s.createExpense(alice, "Coffee", "4.50", "Food")
	s.createExpense(bob, "Bus", "2.00", "Transport")

	bobList, err := s.expenses.ListByOwner(s.ctx, bob)
	require.NoError(s.T(), err)
	require.Len(s.T(), bobList, 1)
	assert.Equal(s.T(), "Bus", bobList[0].Title)

	err = s.expenses.Update(s.ctx, bob, coffee.ID, model.ExpenseInput{
		Title:    "Hijacked",
		Amount:   decimal.NewFromInt(1),
		Category: "Evil",
	})
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	err = s.expenses.Delete(s.ctx, bob, coffee.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)

	aliceList, err := s.expenses.ListByOwner(s.ctx, alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), aliceList, 1)
	assert.Equal(s.T(), "Coffee", aliceList[0].Title)
}

func (s *RepositoryTestSuite) TestExpenseMissing() {
	owner := uuid.New()

	err := s.expenses.Update(s.ctx, owner, uuid.New(), model.ExpenseInput{Title: "x", Amount: decimal.NewFromInt(1), Category: "y"})
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	assert.ErrorIs(s.T(), s.expenses.Delete(s.ctx, owner, uuid.New()), apperrors.ErrNotFound)

	list, err := s.expenses.ListByOwner(s.ctx, owner)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), list)
	assert.Empty(s.T(), list)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
