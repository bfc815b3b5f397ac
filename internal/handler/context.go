package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
)

// IdentityContextKey is where the identity middleware stores the validated *auth.Identity.
const IdentityContextKey = "identity"

// UserIDFrom returns the authenticated caller's id.
func UserIDFrom(c echo.Context) (uuid.UUID, error) {
	identity, ok := c.Get(IdentityContextKey).(*auth.Identity)
	if !ok || identity == nil || identity.UserID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return identity.UserID, nil
}

func invalidBody() error {
	return apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_BODY")
}
