package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/service"
)

// ExpenseHandler handles expense endpoints. All routes require authentication.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// AddExpenseRequest represents a new expense.
type AddExpenseRequest struct {
	Title    string          `json:"title" validate:"required,min=2,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"number"`
	Category string          `json:"category" validate:"required,max=100"`
}

// UpdateExpenseRequest represents a change to an existing expense.
type UpdateExpenseRequest struct {
	ID       string          `json:"id" validate:"required"`
	Title    string          `json:"title" validate:"required,min=2,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"number"`
	Category string          `json:"category" validate:"required,max=100"`
}

func expenseNotFound() error {
	return apperrors.NewHTTPError(http.StatusNotFound, "expense not found", "EXPENSE_NOT_FOUND")
}

// AddExpense godoc
// @Summary Add an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddExpenseRequest true "Expense"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /expenses/add [post]
func (h *ExpenseHandler) AddExpense(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	var req AddExpenseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)

	if err := c.Validate(&req); err != nil {
		return err
	}

	expense, err := h.expenseService.Add(c.Request().Context(), userID, model.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, expense)
}

// ListExpenses godoc
// @Summary List the current user's expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Expense
// @Failure 401 {object} errors.ErrorResponse
// @Router /expenses/all [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, expenses)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateExpenseRequest true "Expense"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/update [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)

	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.expenseService.Update(c.Request().Context(), userID, req.ID, model.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return expenseNotFound()
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "expense updated successfully"})
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/delete/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	if err := h.expenseService.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return expenseNotFound()
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "expense deleted"})
}
