package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/service"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *model.UserSummary `json:"user"`
	Token   string             `json:"token"`
}

// UserResponse wraps a user summary.
type UserResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	User    *model.UserSummary `json:"user"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "registered successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "login successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHTTPError(http.StatusNotFound, "user not found", "USER_NOT_FOUND")
		}
		return err
	}

	return c.JSON(http.StatusOK, UserResponse{Success: true, User: user})
}

// UpdateProfile godoc
// @Summary Update name and email of the current user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile data"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/update [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, req.Name, req.Email)
	if err != nil {
		// The profile routes report a missing account as a bad request.
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHTTPError(http.StatusBadRequest, "user not found", "USER_NOT_FOUND")
		}
		return err
	}

	return c.JSON(http.StatusOK, UserResponse{Success: true, Message: "updated successfully", User: user})
}

// DeleteAccount godoc
// @Summary Delete the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/delete [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	userID, err := UserIDFrom(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHTTPError(http.StatusBadRequest, "user not found", "USER_NOT_FOUND")
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "user deleted"})
}
