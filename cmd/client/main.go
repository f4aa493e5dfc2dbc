package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/client"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/tui"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/internal/workers"
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

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("go-link-client", cfg.Log.FilePath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	userID, err := utils.ParseUserIDFromJWT(cfg.App.AccessToken)
	if err != nil {
		log.Fatal().Err(err).Msg("access token carries no user")
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store adapter")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	var app *client.App
	services := service.NewClientServices(storages.CacheStore, remote, cfg.Sync, log,
		service.WithAuthFailureHandler(func(err error) { app.OnAuthFailure(err) }),
	)

	connectivity := workers.NewConnectivityWorker(remote, services.SyncEngine, cfg.Workers.ConnectivityInterval, log)
	ui := tui.New(services.SyncEngine, buildInfo, log)
	app = client.NewApp(services.SyncEngine, workers.NewWorkers(connectivity), ui, userID, log)

	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
