// Command quanta-server starts the Quanta Share HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/darshilbhuva09/quanta/internal/config"
	"github.com/darshilbhuva09/quanta/internal/limiter"
	"github.com/darshilbhuva09/quanta/internal/mail"
	"github.com/darshilbhuva09/quanta/internal/migrate"
	"github.com/darshilbhuva09/quanta/internal/repository/postgres"
	httpserver "github.com/darshilbhuva09/quanta/internal/server/http"
	"github.com/darshilbhuva09/quanta/internal/service"
	"github.com/darshilbhuva09/quanta/internal/storage"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	cfg := config.Load()

	// Flags override the environment for local runs.
	addr := flag.String("addr", cfg.Addr, "listen address")
	dsn := flag.String("dsn", cfg.DatabaseDSN, "PostgreSQL DSN")
	jwtKey := flag.String("jwt-key", cfg.JWTKey, "HS256 signing key (required)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key or JWT_KEY)")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, *dsn); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileRepo(db)

	lim := limiter.NewPostgres(pool, 15*time.Minute, 5, 15*time.Minute)

	// Remote store and mail transport
	store, err := storage.NewS3(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		LinkTTL:   cfg.LinkTTL,
	})
	if err != nil {
		logger.Fatal("storage.NewS3", zap.Error(err))
	}

	mailer := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
	})

	// Services
	authSvc := service.NewAuthService(userRepo, store, []byte(*jwtKey), cfg.AccessTTL, lim)
	fileSvc := service.NewFileService(userRepo, fileRepo, store)
	shareSvc := service.NewShareService(userRepo, fileRepo, mailer, nil)

	// HTTP server
	srv := httpserver.New(authSvc, fileSvc, shareSvc, []byte(*jwtKey), logger)
	app := srv.Router()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- app.Listen(*addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
