package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/handler"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/server"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("go-link-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.Version
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	// `issue-token <user-id>` prints a client access token and exits
	if args := flag.Args(); len(args) == 2 && args[0] == "issue-token" {
		issueToken(*cfg, args[1], log)
		return
	}

	if err = cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server configuration")
	}

	ctx := context.Background()
	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log, func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func issueToken(cfg config.StructuredConfig, userID string, log *logger.Logger) {
	auth, err := service.NewAuthService(cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating auth service")
	}

	token, err := auth.CreateToken(context.Background(), userID)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing token")
	}

	fmt.Println(token.SignedString)
}
