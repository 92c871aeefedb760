package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		Version      string `json:"version"`
	} `json:"app,omitempty"`

	Keys struct {
		KeyRef            string   `json:"key_ref"`
		SigningKeyVersion string   `json:"signing_key_version"`
		MasterPassphrase  string   `json:"master_passphrase"`
		KEKSalt           string   `json:"kek_salt"`
		SigningKeyPath    string   `json:"signing_key_path"`
		RemoteAddress     string   `json:"remote_address"`
		RequestTimeout    Duration `json:"request_timeout"`
	} `json:"keys,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Blobs struct {
			Dir string `json:"dir"`
		} `json:"blobs,omitempty"`
	} `json:"storage,omitempty"`

	Cache struct {
		VerifiedTTL    Duration `json:"verified_ttl"`
		TamperedTTL    Duration `json:"tampered_ttl"`
		NotFoundTTL    Duration `json:"not_found_ttl"`
		ThrottleWindow Duration `json:"throttle_window"`
	} `json:"cache,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
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
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			Version:      jsonCfg.App.Version,
		},
		Keys: Keys{
			KeyRef:            jsonCfg.Keys.KeyRef,
			SigningKeyVersion: jsonCfg.Keys.SigningKeyVersion,
			MasterPassphrase:  jsonCfg.Keys.MasterPassphrase,
			KEKSalt:           jsonCfg.Keys.KEKSalt,
			SigningKeyPath:    jsonCfg.Keys.SigningKeyPath,
			RemoteAddress:     jsonCfg.Keys.RemoteAddress,
			RequestTimeout:    time.Duration(jsonCfg.Keys.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Blobs: Blobs{
				Dir: jsonCfg.Storage.Blobs.Dir,
			},
		},
		Cache: Cache{
			VerifiedTTL:    time.Duration(jsonCfg.Cache.VerifiedTTL),
			TamperedTTL:    time.Duration(jsonCfg.Cache.TamperedTTL),
			NotFoundTTL:    time.Duration(jsonCfg.Cache.NotFoundTTL),
			ThrottleWindow: time.Duration(jsonCfg.Cache.ThrottleWindow),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
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
