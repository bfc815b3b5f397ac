package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	"expensetracker/internal/db"
	"expensetracker/internal/handler"
	"expensetracker/internal/logging"
	"expensetracker/internal/repository"
	"expensetracker/internal/router"
	"expensetracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Expense Tracker API
// @version 1.0
// @description Personal expense tracking API with JWT authentication and per-user expense records.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logging.New(cfg.IsProduction(), cfg.LogLevel)
	log.WithField("config", cfg.String()).Info("configuration loaded")

	gormDB, err := db.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.WithError(err).Warn("close database")
		}
	}()

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.WithError(err).Warn("redis unreachable, profile cache disabled until it recovers")
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		log.WithError(err).Fatal("jwt init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB, cfg.DBQueryTimeout)
	expenseRepo := repository.NewExpenseRepository(gormDB, cfg.DBQueryTimeout)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, cacheClient)
	expenseService := service.NewExpenseService(expenseRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	e := echo.New()
	router.Register(e, cfg, log, jwtService, authHandler, expenseHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server listening")
		log.Infof("swagger documentation available at http://localhost:%s/swagger/index.html", cfg.ServerPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}
