package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nutridiet/backend/config"
	"github.com/nutridiet/backend/internal/api"
	"github.com/nutridiet/backend/internal/database"
	"github.com/nutridiet/backend/internal/logger"
	"github.com/nutridiet/backend/internal/router"
	"github.com/nutridiet/backend/internal/server"
	"github.com/nutridiet/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("failed to run migrations", zap.Error(err))
	}

	llmService, err := service.NewLLMService(cfg.LLM)
	if err != nil {
		zap.L().Fatal("failed to create completion service", zap.Error(err))
	}
	authService := service.NewAuthService(db)
	resetService := service.NewPasswordResetService(db, authService, cfg.OTP.TTL)
	emailService := service.NewEmailService(cfg.SMTP)

	chatHandler := api.NewChatHandler(llmService)
	dietPlanHandler := api.NewDietPlanHandler(llmService)
	passwordHandler := api.NewPasswordHandler(resetService, emailService, cfg.OTP.ExposeCode)

	engine := router.SetupRouter(chatHandler, dietPlanHandler, passwordHandler)
	srv := server.New(engine, cfg.Server.Host+":"+cfg.Server.Port)

	errChan := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("port", cfg.Server.Port))
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zap.L().Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zap.L().Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("server shutdown error", zap.Error(err))
	}
	zap.L().Info("server stopped")
}
