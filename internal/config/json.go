package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonSyncWindows struct {
	ThrottleWindow Duration `json:"throttle_window"`
	DebounceWindow Duration `json:"debounce_window"`
}

// StructuredJSONConfig is the on-disk JSON layout of the configuration file.
type StructuredJSONConfig struct {
	App struct {
		AccessToken   string   `json:"access_token"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		ThrottleWindow Duration        `json:"throttle_window"`
		DebounceWindow Duration        `json:"debounce_window"`
		Links          jsonSyncWindows `json:"links"`
		Collections    jsonSyncWindows `json:"collections"`
	} `json:"sync,omitempty"`

	Workers struct {
		ConnectivityInterval Duration `json:"connectivity_interval"`
	} `json:"workers,omitempty"`

	Log struct {
		FilePath string `json:"file_path"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AccessToken:   jsonCfg.App.AccessToken,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			ThrottleWindow: time.Duration(jsonCfg.Sync.ThrottleWindow),
			DebounceWindow: time.Duration(jsonCfg.Sync.DebounceWindow),
			Links: SyncWindows{
				ThrottleWindow: time.Duration(jsonCfg.Sync.Links.ThrottleWindow),
				DebounceWindow: time.Duration(jsonCfg.Sync.Links.DebounceWindow),
			},
			Collections: SyncWindows{
				ThrottleWindow: time.Duration(jsonCfg.Sync.Collections.ThrottleWindow),
				DebounceWindow: time.Duration(jsonCfg.Sync.Collections.DebounceWindow),
			},
		},
		Workers: Workers{
			ConnectivityInterval: time.Duration(jsonCfg.Workers.ConnectivityInterval),
		},
		Log: Log{
			FilePath: jsonCfg.Log.FilePath,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
