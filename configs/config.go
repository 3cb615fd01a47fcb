package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		CORSOrigins     []string      `koanf:"cors_origins"`
	} `koanf:"http"`

	Postgres struct {
		URL      string `koanf:"url"`
		MaxConns int32  `koanf:"max_conns"`
	} `koanf:"postgres"`

	Security struct {
		JWTSecret string `koanf:"jwt_secret"`
		Issuer    string `koanf:"issuer"`
		Audience  string `koanf:"audience"`
	} `koanf:"security"`

	Payment struct {
		BankName string `koanf:"bank_name"`
	} `koanf:"payment"`
}

// Load reads base.yaml from pathDir, overlays an optional <envName>.yaml,
// then environment variables prefixed MALLAPI_ (nested keys with __, e.g.
// MALLAPI_POSTGRES__URL).
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// Environment overlay is optional for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("MALLAPI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MALLAPI_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	return nil
}
