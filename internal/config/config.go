// Package config handles loading and parsing application configuration.
// It supports these sources (later ones override earlier ones):
//  1. A .env file in the working directory, if present
//  2. An optional YAML file: CONFIG_PATH=/path/to/config.yaml or
//     --config=/path/to/config.yaml
//  3. Environment variables (env:"..." tags)
//
// Without a YAML file the whole configuration comes from the environment,
// falling back to the env-default values below.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`

	Storage Storage `yaml:"storage"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. ":3000".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":3000"`
}

// Storage holds the Record Store connection parameters. It is handed
// as-is to the backend constructor selected by Driver.
//
// Host, port, credentials and database name also accept the MYSQL*
// variable names that hosted MySQL providers inject. A zero Port means
// the engine's default port.
type Storage struct {
	// Driver selects the backend: "sqlite", "mysql" or "postgres".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	// Path is the SQLite database file.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/schools.db"`

	Host     string `yaml:"host"     env:"DB_HOST,MYSQLHOST"         env-default:"localhost"`
	Port     int    `yaml:"port"     env:"DB_PORT,MYSQLPORT"`
	User     string `yaml:"user"     env:"DB_USER,MYSQLUSER"         env-default:"root"`
	Password string `yaml:"password" env:"DB_PASSWORD,MYSQLPASSWORD"`
	Name     string `yaml:"name"     env:"DB_NAME,MYSQLDATABASE"     env-default:"school_db"`

	// PoolSize caps the number of open connections.
	PoolSize int `yaml:"pool_size" env:"DB_POOL_SIZE" env-default:"10"`

	// ConnectTimeout bounds establishing a new connection.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`

	// QueryTimeout bounds every store operation, including the wait for a
	// free pool slot.
	QueryTimeout time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" env-default:"5s"`
}

// Load reads the configuration from the YAML file at path, or from the
// environment alone when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
	} else {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.PoolSize < 1 {
		return fmt.Errorf("storage pool_size must be at least 1, got %d", c.Storage.PoolSize)
	}

	if c.Storage.QueryTimeout <= 0 {
		return errors.New("storage query_timeout must be positive")
	}

	return nil
}

// MustLoad reads, validates, and returns the application config.
// It exits the process if the configuration cannot be loaded.
func MustLoad() *Config {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}
