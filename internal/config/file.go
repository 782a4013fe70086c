package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StructuredFileConfig is the on-disk shape of the configuration file. The
// same structure is accepted as JSON and as YAML.
type StructuredFileConfig struct {
	Name        string `json:"name" yaml:"name"`
	Environment string `json:"environment" yaml:"environment"`
	Port        int    `json:"port" yaml:"port"`
	Routes      string `json:"routes" yaml:"routes"`

	Logging struct {
		Format string `json:"format" yaml:"format"`
		Stack  bool   `json:"stack" yaml:"stack"`
	} `json:"logging" yaml:"logging"`

	HTTP struct {
		SSL       bool  `json:"ssl" yaml:"ssl"`
		BodyLimit int64 `json:"body_limit" yaml:"body_limit"`
		CORS      CORS  `json:"cors" yaml:"cors"`
		Rate      struct {
			Enabled bool     `json:"enabled" yaml:"enabled"`
			Max     int      `json:"max" yaml:"max"`
			Window  Duration `json:"window" yaml:"window"`
		} `json:"rate" yaml:"rate"`
	} `json:"http" yaml:"http"`

	Session struct {
		Store string `json:"store" yaml:"store"`
		Key   string `json:"key" yaml:"key"`
		DSN   string `json:"dsn" yaml:"dsn"`
		Redis struct {
			Addr        string   `json:"addr" yaml:"addr"`
			Username    string   `json:"username" yaml:"username"`
			Password    string   `json:"password" yaml:"password"`
			DB          int      `json:"db" yaml:"db"`
			DialTimeout Duration `json:"dial_timeout" yaml:"dial_timeout"`
		} `json:"redis" yaml:"redis"`
	} `json:"session" yaml:"session"`

	Auth struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
	} `json:"auth" yaml:"auth"`
}

// parseFile reads a JSON or YAML config file, chosen by extension.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, path)
	}

	return fileCfg.structured(), nil
}

func (f *StructuredFileConfig) structured() *StructuredConfig {
	return &StructuredConfig{
		Name:        f.Name,
		Environment: f.Environment,
		Port:        f.Port,
		Routes:      f.Routes,
		Logging: Logging{
			Format: f.Logging.Format,
			Stack:  f.Logging.Stack,
		},
		HTTP: HTTP{
			SSL:       f.HTTP.SSL,
			BodyLimit: f.HTTP.BodyLimit,
			CORS:      f.HTTP.CORS,
			Rate: RateLimit{
				Enabled: f.HTTP.Rate.Enabled,
				Max:     f.HTTP.Rate.Max,
				Window:  time.Duration(f.HTTP.Rate.Window),
			},
		},
		Session: Session{
			Store: f.Session.Store,
			Key:   f.Session.Key,
			DSN:   f.Session.DSN,
			Redis: Redis{
				Addr:        f.Session.Redis.Addr,
				Username:    f.Session.Redis.Username,
				Password:    f.Session.Redis.Password,
				DB:          f.Session.Redis.DB,
				DialTimeout: time.Duration(f.Session.Redis.DialTimeout),
			},
		},
		Auth: Auth{
			TokenSignKey:  f.Auth.TokenSignKey,
			TokenIssuer:   f.Auth.TokenIssuer,
			TokenDuration: time.Duration(f.Auth.TokenDuration),
		},
	}
}

// Duration is a wrapper around time.Duration that supports JSON and YAML
// unmarshaling from strings like "1h", "30s". Bare numbers are nanoseconds.
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

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	if n, err := time.ParseDuration(s); err == nil {
		*d = Duration(n)
		return nil
	}

	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ns))
	return nil
}
