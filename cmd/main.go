package main

import (
	"context"
	"errors"
	"os"

	"github.com/249ali/shelf/internal/auth"
	"github.com/249ali/shelf/internal/repositories"
	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	libraryService := services.NewLibraryService(config.API.BaseURL, nil)
	apiService := services.NewAPIService(config.API.BaseURL, nil)

	var identityService *services.IdentityService
	if config.Identity.URL != "" && config.Identity.APIKey != "" {
		if svc, err := services.NewIdentityService(config.Identity, nil); err == nil {
			identityService = svc
		}
	}

	var sessionRepo *repositories.SessionRepository
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			sessionRepo = repositories.NewSessionRepository(db)
		} else {
			logger.Warn("failed to open session database", "error", err)
		}
	}

	// A typed nil pointer in the interface would dodge the manager's nil checks.
	var identity services.Identity
	if identityService != nil {
		identity = identityService
	}
	manager := auth.NewManager(identity, sessionRepo)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Library:  libraryService,
		Identity: identityService,
		API:      apiService,
		Auth:     manager,
		Logger:   logger,
	})

	// A stored session, when present and unexpired, signs the CLI in silently.
	if session, err := manager.Restore(); err == nil {
		runner.applyToken(session.AccessToken)
	} else if errors.Is(err, shared.ErrSessionExpired) {
		logger.Warn("stored session expired, sign in again with 'shelf auth login'")
	}

	app := &cli.Command{
		Name:     "shelf",
		Usage:    "Browse your library, reading lists & recommendations from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
