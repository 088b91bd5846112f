package logger

import (
	"sync"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Config selects the zap preset and minimum level.
type Config struct {
	Env   string `env:"APP_ENV" envDefault:"development"`
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// GetLogger returns zap.Logger instance, but using singleton pattern creates only one reusable instace.
// APP_ENV=production switches to the JSON production preset, anything else uses the development console preset.
func GetLogger() *zap.Logger {
	once.Do(func() {
		_ = godotenv.Load()
		cfg := Config{}
		if err := env.Parse(&cfg); err != nil {
			panic("failed logger config: " + err.Error())
		}
		var err error
		logger, err = New(cfg)
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}
	})
	return logger
}

// New builds a logger from cfg without touching the singleton.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}
