// Package main runs simple-admin without a database using in-memory
// repositories. Useful for development and for exploring the impersonation
// API without setup. All data is lost when the server stops; for production
// use cmd/simple-admin with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-admin/pkg/audit"
	"github.com/tendant/simple-admin/pkg/credential"
	"github.com/tendant/simple-admin/pkg/directory"
	"github.com/tendant/simple-admin/pkg/impersonate"
	impersonateapi "github.com/tendant/simple-admin/pkg/impersonate/api"
)

const jwtSecret = "inmem-dev-secret-change-in-production!!"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory simple-admin (no database required)")

	userRepo := directory.NewInMemoryUserRepository()
	directoryService := directory.NewService(userRepo)
	auditSink := audit.NewInMemorySink()

	seedUsers(userRepo)

	issuer, err := credential.NewIssuer(jwtSecret, "simple-admin", "simple-admin", credential.DefaultTTL)
	if err != nil {
		slog.Error("Failed creating credential issuer", "err", err)
		os.Exit(-1)
	}

	impersonationService := impersonate.NewService(directoryService, issuer, auditSink)

	server := app.NewApp(app.WithPort(4000))
	app.RegisterHealthzRoutes(server.R)

	hmacAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)
	server.R.Route("/admin", func(r chi.Router) {
		r.Use(jwtauth.Verifier(hmacAuth))
		r.Use(jwtauth.Authenticator(hmacAuth))

		directory.NewHandler(directoryService).RegisterRoutes(r)
		impersonateapi.NewHandler(impersonationService).RegisterRoutes(r)
	})

	server.Run()
}

func seedUsers(repo *directory.InMemoryUserRepository) {
	ctx := context.Background()

	admin, _ := repo.CreateUser(ctx, directory.CreateUserParams{
		Email: "admin@example.com",
		Name:  "Demo Admin",
		Role:  directory.RoleAdmin,
	})
	user, _ := repo.CreateUser(ctx, directory.CreateUserParams{
		Email: "user@example.com",
		Name:  "Demo User",
		Role:  directory.RoleUser,
	})

	slog.Info("Seeded demo users", "adminId", admin.ID, "userId", user.ID)
}
