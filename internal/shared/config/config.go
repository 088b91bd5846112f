package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	NotifierLog     = "log"
	NotifierMailgun = "mailgun"
	NotifierQueue   = "queue"
)

// Config holds every setting the API server and the notifier worker read from the environment.
type Config struct {
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":9000"`
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"postgres"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"file://internal/shared/db/migrations/sql"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"30s"` // 0 disables the sweeper
	SweepBatch     int           `env:"SWEEP_BATCH" envDefault:"100"`

	DB       DBConfig
	Auth     AuthConfig
	Notifier NotifierConfig
	Redis    RedisConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"auctionportal"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

// DSN returns the postgres URL used by both pgxpool and golang-migrate.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
	// AdminEmails get the admin role when they register.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
}

type NotifierConfig struct {
	Driver        string `env:"NOTIFIER_DRIVER" envDefault:"log"`
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
	MailgunSender string `env:"MAILGUN_SENDER"`
	RabbitMQURL   string `env:"RABBITMQ_URL"`
	RabbitMQQueue string `env:"RABBITMQ_QUEUE" envDefault:"winner_notifications"`
}

// RedisConfig is optional; an empty Addr disables the sweeper lease.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads .env when present and parses the environment into Config.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SweepInterval < 0 {
		return errors.New("SWEEP_INTERVAL must not be negative")
	}
	if c.SweepBatch <= 0 {
		return errors.New("SWEEP_BATCH must be positive")
	}

	switch c.Notifier.Driver {
	case NotifierLog:
	case NotifierMailgun:
		if err := c.Notifier.requireMailgun(); err != nil {
			return err
		}
	case NotifierQueue:
		if c.Notifier.RabbitMQURL == "" || c.Notifier.RabbitMQQueue == "" {
			return errors.New("NOTIFIER_DRIVER=queue needs RABBITMQ_URL and RABBITMQ_QUEUE")
		}
	default:
		return fmt.Errorf("unknown NOTIFIER_DRIVER %q", c.Notifier.Driver)
	}
	return nil
}

func (n NotifierConfig) requireMailgun() error {
	if n.MailgunDomain == "" || n.MailgunAPIKey == "" || n.MailgunSender == "" {
		return errors.New("mailgun needs MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER")
	}
	return nil
}

// RequireMailgun is used by the notifier worker, which always sends through Mailgun.
func (n NotifierConfig) RequireMailgun() error {
	return n.requireMailgun()
}
