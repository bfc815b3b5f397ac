package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "expensetracker/internal/errors"
)

// ErrorHandler renders every error as apperrors.ErrorResponse. Unexpected
// errors are logged and answered with a generic 500.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			// Router level failures such as unknown routes or methods.
			message := http.StatusText(echoErr.Code)
			if m, ok := echoErr.Message.(string); ok && echoErr.Code < http.StatusInternalServerError {
				message = m
			}
			httpErr = apperrors.NewHTTPError(echoErr.Code, message, "HTTP_ERROR")
		} else {
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.WithError(err).
				WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				WithField("path", c.Path()).
				Error("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			log.WithError(writeErr).Error("write error response")
		}
	}
}
