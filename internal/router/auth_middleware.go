package router

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/handler"
)

// RequireAuth rejects requests without a valid bearer token before any handler
// runs. On success the *auth.Identity is stored under handler.IdentityContextKey.
// Handlers never re-check the signature.
func RequireAuth(jwtService *auth.JWTService, log *logrus.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, err := jwtService.Validate(token)
			if err != nil {
				return nil, err
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// The token itself is never logged.
			log.WithFields(logrus.Fields{
				"path":       c.Path(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Debug("rejected unauthenticated request")
			return apperrors.ErrUnauthorized
		},
	})
}
