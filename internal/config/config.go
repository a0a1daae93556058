package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	Timezone    string `yaml:"timezone" env:"TIMEZONE" env-default:"America/Sao_Paulo"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Storage     `yaml:"storage"`
	HTTPServer  `yaml:"http_server"`
	RateLimit   `yaml:"rate_limit"`
}

type Storage struct {
	MaxOpenConns    int           `yaml:"max_open_conns" env:"STORAGE_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"STORAGE_MAX_IDLE_CONNS" env-default:"1"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"STORAGE_CONN_MAX_LIFETIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"STORAGE_QUERY_TIMEOUT" env-default:"5s"`
	MigrateOnStart  bool          `yaml:"migrate_on_start" env:"STORAGE_MIGRATE_ON_START" env-default:"false"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// RateLimit of zero falls back to the defaults; a negative rps disables limiting.
// TrustForwarded keys clients on X-Forwarded-For/X-Real-IP; enable it only behind a proxy that sets them.
type RateLimit struct {
	RPS            float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"20"`
	Burst          int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"40"`
	TrustForwarded bool    `yaml:"trust_forwarded" env:"RATE_LIMIT_TRUST_FORWARDED" env-default:"false"`
}

// Location resolves the configured time zone; "today" and slot timestamps are computed in it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func MustLoad() *Config {
	configPath := fetchConfigPath()

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// fetchConfigPath takes the -config flag first, then CONFIG_PATH, then the default path.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = defaultConfigPath
	}

	return res
}
