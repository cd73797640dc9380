package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penline/blog/internal/app"
	"github.com/penline/blog/internal/config"
	"github.com/penline/blog/internal/database"
	"github.com/penline/blog/internal/pkg/jwt"
	"github.com/penline/blog/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	migrate := flag.Bool("migrate", false, "Run database migrations and exit")
	issueToken := flag.String("issue-token", "", "Print an admin token for the given user ID and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of a token printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsDev(), cfg.LogDir())
	if err != nil {
		log, _ = zap.NewProduction()
		log.Warn("log directory unavailable, logging to stdout only", zap.Error(err))
	}
	defer log.Sync()

	if *issueToken != "" {
		jwt.SetSecret(cfg.JWTSecret)
		token, err := jwt.Sign(*issueToken, true, *tokenTTL)
		if err != nil {
			log.Fatal("sign token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	if *migrate {
		if _, err := database.Connect(cfg, true); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		log.Info("migration finished")
		return
	}

	application, err := app.New(log, cfg)
	if err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	application.Shutdown()
	log.Info("server exited")
}
