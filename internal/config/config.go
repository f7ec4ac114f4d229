// Package config loads the settings shared by the ChatMacro programs. Settings
// are read from an optional TOML file and then overridden by environment
// variables prefixed with "CHATMACRO_", which may themselves be given in a
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/dekarrin/chatmacro/internal/version"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// EnvPrefix is put before the name of every environment variable read.
const EnvPrefix = "CHATMACRO_"

// Host identifies the program macros run inside of.
type Host struct {
	// Name is the label given by the "blish" command.
	Name string `toml:"name" env:"NAME"`

	// Version is the version given by the "blish" command. Build metadata
	// after a '+' is dropped when displayed.
	Version string `toml:"version" env:"VERSION"`
}

// HTTP configures the requests made by the "json" command.
type HTTP struct {
	Timeout           time.Duration `toml:"timeout" env:"TIMEOUT"`
	RequestsPerSecond float64       `toml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	Burst             int           `toml:"burst" env:"BURST"`
	UserAgent         string        `toml:"user_agent" env:"USER_AGENT"`
}

// Catalog configures where map catalog data is kept and loaded from.
type Catalog struct {
	// DB is the store to keep the catalog in. It is given as a connection
	// string such as "inmem" or "sqlite:/var/lib/chatmacro".
	DB Database `toml:"db" env:"DB"`

	// DataFile is an MCD file to import into DB at startup. If empty, nothing
	// is imported.
	DataFile string `toml:"data_file" env:"DATA_FILE"`
}

// Server configures the HTTP API server.
type Server struct {
	Listen         string        `toml:"listen" env:"LISTEN"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

// Log configures logging.
type Log struct {
	// Level is the minimum level logged, one of "trace", "debug", "info",
	// "warn", "error", or "disabled".
	Level string `toml:"level" env:"LEVEL"`

	// File is a path to write logs to. If empty, logs go to stderr.
	File string `toml:"file" env:"FILE"`

	MaxSizeMB  int `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int `toml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int `toml:"max_age_days" env:"MAX_AGE_DAYS"`
}

// Config is the complete configuration of a ChatMacro program.
type Config struct {
	// Culture is the BCP 47 tag of the UI culture, e.g. "de-DE".
	Culture string `toml:"culture" env:"CULTURE"`

	Host    Host    `toml:"host" envPrefix:"HOST_"`
	HTTP    HTTP    `toml:"http" envPrefix:"HTTP_"`
	Catalog Catalog `toml:"catalog" envPrefix:"CATALOG_"`
	Server  Server  `toml:"server" envPrefix:"SERVER_"`
	Log     Log     `toml:"log" envPrefix:"LOG_"`
}

// Load reads the config. The TOML file at path is read first, unless path is
// empty. Then every .env file in envFiles that exists is loaded into the
// environment, without replacing variables that are already set. Finally the
// CHATMACRO_ environment variables are applied on top.
//
// The returned Config has not had defaults filled or been validated.
func Load(path string, envFiles ...string) (Config, error) {
	var cfg Config

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, fmt.Errorf("load env file %q: %w", envFile, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// FillDefaults returns a new Config identical to cfg but with unset values set
// to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.Culture == "" {
		newCFG.Culture = "en-US"
	}
	if newCFG.Host.Name == "" {
		newCFG.Host.Name = version.HostName
	}
	if newCFG.Host.Version == "" {
		newCFG.Host.Version = version.Current
	}
	if newCFG.HTTP.Timeout == 0 {
		newCFG.HTTP.Timeout = 10 * time.Second
	}
	if newCFG.HTTP.RequestsPerSecond > 0 && newCFG.HTTP.Burst == 0 {
		newCFG.HTTP.Burst = 1
	}
	if newCFG.HTTP.UserAgent == "" {
		newCFG.HTTP.UserAgent = "chatmacro/" + version.Current
	}
	if newCFG.Catalog.DB.Type == "" || newCFG.Catalog.DB.Type == DatabaseNone {
		newCFG.Catalog.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.Server.Listen == "" {
		newCFG.Server.Listen = "localhost:8080"
	}
	if newCFG.Server.RequestTimeout == 0 {
		newCFG.Server.RequestTimeout = 30 * time.Second
	}
	if newCFG.Log.Level == "" {
		newCFG.Log.Level = "info"
	}
	if newCFG.Log.MaxSizeMB == 0 {
		newCFG.Log.MaxSizeMB = 10
	}
	if newCFG.Log.MaxBackups == 0 {
		newCFG.Log.MaxBackups = 3
	}
	if newCFG.Log.MaxAgeDays == 0 {
		newCFG.Log.MaxAgeDays = 28
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if _, err := language.Parse(cfg.Culture); err != nil {
		return fmt.Errorf("culture: %w", err)
	}
	if cfg.Host.Name == "" {
		return fmt.Errorf("host name: must not be empty")
	}
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout: must be greater than 0")
	}
	if cfg.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http requests per second: must not be negative")
	}
	if cfg.HTTP.Burst < 0 {
		return fmt.Errorf("http burst: must not be negative")
	}
	if err := cfg.Catalog.DB.Validate(); err != nil {
		return fmt.Errorf("catalog db: %w", err)
	}
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server listen address: must not be empty")
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout: must be greater than 0")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation: limits must not be negative")
	}

	return nil
}
