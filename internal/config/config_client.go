package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-link-keeper/models"
)

// Defaults applied to the client view when the merged configuration leaves
// a value unset.
const (
	DefaultThrottleWindow       = 30 * time.Second
	DefaultDebounceWindow       = 2 * time.Second
	DefaultRequestTimeout       = 15 * time.Second
	DefaultConnectivityInterval = 10 * time.Second
)

type ClientApp struct {
	AccessToken string
}

type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

type ClientDB struct {
	DSN string
}

type ClientStorage struct {
	DB ClientDB
}

// ClientSync holds the resolved scheduler windows for every entity kind.
type ClientSync struct {
	Windows map[models.EntityKind]SyncWindows
}

// For returns the windows of kind, falling back to the package defaults.
func (s ClientSync) For(kind models.EntityKind) SyncWindows {
	w, ok := s.Windows[kind]
	if !ok {
		return SyncWindows{ThrottleWindow: DefaultThrottleWindow, DebounceWindow: DefaultDebounceWindow}
	}
	return w
}

type ClientWorkers struct {
	ConnectivityInterval time.Duration
}

type ClientLog struct {
	FilePath string
}

type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
	Log     ClientLog
}

// GetClientConfig builds the structured configuration and narrows it to the
// client view, resolving sync windows per entity kind.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

// NewClientConfig narrows cfg to the client view and applies defaults.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			AccessToken: cfg.App.AccessToken,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: orDefault(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			Windows: map[models.EntityKind]SyncWindows{
				models.EntityKindLinks:       resolveWindows(cfg.Sync, cfg.Sync.Links),
				models.EntityKindCollections: resolveWindows(cfg.Sync, cfg.Sync.Collections),
			},
		},
		Workers: ClientWorkers{
			ConnectivityInterval: orDefault(cfg.Workers.ConnectivityInterval, DefaultConnectivityInterval),
		},
		Log: ClientLog{
			FilePath: cfg.Log.FilePath,
		},
	}

	return clientCfg
}

func resolveWindows(global Sync, perKind SyncWindows) SyncWindows {
	return SyncWindows{
		ThrottleWindow: orDefault(perKind.ThrottleWindow, orDefault(global.ThrottleWindow, DefaultThrottleWindow)),
		DebounceWindow: orDefault(perKind.DebounceWindow, orDefault(global.DebounceWindow, DefaultDebounceWindow)),
	}
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
