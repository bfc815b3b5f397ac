package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "expensetracker/docs" // swagger docs

	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	"expensetracker/internal/handler"
	"expensetracker/internal/logging"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logrus.Logger,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	expenseHandler *handler.ExpenseHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.WithError(err).
				WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Error("panic recovered")
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require JWT authentication)
	secured := api.Group("", RequireAuth(jwtService, log))

	secured.GET("/auth/me", authHandler.Me)
	secured.PUT("/auth/update", authHandler.UpdateProfile)
	secured.DELETE("/auth/delete", authHandler.DeleteAccount)

	secured.POST("/expenses/add", expenseHandler.AddExpense)
	secured.GET("/expenses/all", expenseHandler.ListExpenses)
	secured.PUT("/expenses/update", expenseHandler.UpdateExpense)
	secured.DELETE("/expenses/delete/:id", expenseHandler.DeleteExpense)
}
