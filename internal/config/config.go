// /internal/config/config.go
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"json"`
	Path   string `env:"STORAGE_PATH" envDefault:"datastore.json"`
}

type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required,notEmpty"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// RegistrationRate is the steady rate of guild command overwrites per second.
	RegistrationRate    float64 `env:"REGISTRATION_RATE" envDefault:"5"`
	RegistrationWorkers int     `env:"REGISTRATION_WORKERS" envDefault:"4"`

	Storage StorageConfig
}

// Load reads the bot configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.CommandPrefix == "" {
		return nil, fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}
	if cfg.RegistrationRate <= 0 {
		return nil, fmt.Errorf("REGISTRATION_RATE must be positive, got %v", cfg.RegistrationRate)
	}
	if cfg.RegistrationWorkers < 1 {
		cfg.RegistrationWorkers = 1
	}
	return &cfg, nil
}

// LoadStorage reads only the storage settings, for tools that never connect
// to Discord.
func LoadStorage() (*StorageConfig, error) {
	var sc StorageConfig
	if err := env.Parse(&sc); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc StorageConfig) validate() error {
	switch sc.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", sc.Driver)
	}
	if sc.Path == "" {
		return fmt.Errorf("STORAGE_PATH cannot be empty")
	}
	return nil
}
