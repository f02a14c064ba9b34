package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds the raw settings read from the environment.
type Env struct {
	Port         string        `env:"PORT"           envDefault:"8080"`
	DatabasePath string        `env:"DATABASE_PATH"  envDefault:"pitchbook.db"`
	JWTSecret    string        `env:"JWT_SECRET"`
	RabbitMQURL  string        `env:"RABBITMQ_URL"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	RedisPass    string        `env:"REDIS_PASSWORD"`
	RedisDB      int           `env:"REDIS_DB"       envDefault:"0"`
	SlotOpen     string        `env:"SLOT_OPEN"      envDefault:"08:00"`
	SlotClose    string        `env:"SLOT_CLOSE"     envDefault:"22:00"`
	SlotWidth    time.Duration `env:"SLOT_WIDTH"     envDefault:"1h"`
	Timezone     string        `env:"TIMEZONE"       envDefault:"UTC"`
	StatsRetries int           `env:"STATS_RETRIES"  envDefault:"3"`
}

type Config struct {
	Env

	Window   booking.SlotWindow
	Location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		log.Println("No .env file found, using environment variables")
	}
	return Parse()
}

func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	window, err := booking.ParseSlotWindow(cfg.SlotOpen, cfg.SlotClose, cfg.SlotWidth)
	if err != nil {
		return nil, fmt.Errorf("slot window: %w", err)
	}
	cfg.Window = window

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.StatsRetries < 1 {
		cfg.StatsRetries = 1
	}
	return &cfg, nil
}

// RequireJWTSecret is checked by binaries that serve authenticated requests.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}
