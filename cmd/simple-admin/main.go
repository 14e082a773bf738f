package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-admin/pkg/audit"
	"github.com/tendant/simple-admin/pkg/config"
	"github.com/tendant/simple-admin/pkg/credential"
	"github.com/tendant/simple-admin/pkg/directory"
	"github.com/tendant/simple-admin/pkg/impersonate"
	impersonateapi "github.com/tendant/simple-admin/pkg/impersonate/api"
	"github.com/tendant/simple-admin/pkg/notification"
)

type Config struct {
	DbConfig            config.DatabaseConfig
	ImpersonationConfig config.ImpersonationConfig
	EmailConfig         config.EmailConfig
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Warn("Failed to load .env file", "err", err)
		}
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	if err := config.Validate(cfg.ImpersonationConfig.Validate); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(-1)
	}
	cfg.ImpersonationConfig = cfg.ImpersonationConfig.Clamp()

	pool, err := pgxpool.New(context.Background(), cfg.DbConfig.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.DbConfig.Database, "host", cfg.DbConfig.Host, "err", err)
		os.Exit(-1)
	}

	userRepo, err := directory.NewPostgresUserRepository(pool)
	if err != nil {
		slog.Error("Failed creating user repository", "err", err)
		os.Exit(-1)
	}
	directoryService := directory.NewService(userRepo)

	auditSink, err := audit.NewPostgresSink(pool)
	if err != nil {
		slog.Error("Failed creating audit sink", "err", err)
		os.Exit(-1)
	}

	issuer, err := credential.NewIssuer(
		cfg.ImpersonationConfig.SigningKey,
		cfg.ImpersonationConfig.Issuer,
		cfg.ImpersonationConfig.Audience,
		cfg.ImpersonationConfig.TTL(),
	)
	if err != nil {
		slog.Error("Failed creating credential issuer", "err", err)
		os.Exit(-1)
	}

	opts := []impersonate.Option{
		impersonate.WithMaxPerHour(cfg.ImpersonationConfig.MaxPerHour),
	}
	if cfg.EmailConfig.SecurityTo != "" {
		emailNotifier, err := notification.NewEmailNotifier(cfg.EmailConfig.ToSMTPConfig())
		if err != nil {
			slog.Error("Failed creating email notifier", "err", err)
			os.Exit(-1)
		}
		opts = append(opts, impersonate.WithNotifier(
			notification.NewImpersonationNotifier(emailNotifier, cfg.EmailConfig.SecurityTo)))
	}

	impersonationService := impersonate.NewService(directoryService, issuer, auditSink, opts...)

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	// Admin routes require a valid admin JWT; impersonation adds its own
	// safety checks on top.
	hmacAuth := jwtauth.New("HS256", []byte(cfg.ImpersonationConfig.SigningKey), nil)
	server.R.Route("/admin", func(r chi.Router) {
		r.Use(jwtauth.Verifier(hmacAuth))
		r.Use(jwtauth.Authenticator(hmacAuth))

		directory.NewHandler(directoryService).RegisterRoutes(r)
		impersonateapi.NewHandler(impersonationService).RegisterRoutes(r)
	})

	slog.Info("Starting simple-admin",
		"ttlMinutes", cfg.ImpersonationConfig.TTLMinutes,
		"maxPerHour", cfg.ImpersonationConfig.MaxPerHour)
	server.Run()
}
