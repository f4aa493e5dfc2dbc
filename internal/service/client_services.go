package service

import (
	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
)

type ClientServices struct {
	SyncEngine SyncEngine
}

func NewClientServices(cache store.LocalCacheStore, remote adapter.RemoteStore, cfg config.ClientSync, logger *logger.Logger, opts ...EngineOption) *ClientServices {
	return &ClientServices{
		SyncEngine: NewSyncEngine(remote, cache, cfg, logger, opts...),
	}
}
