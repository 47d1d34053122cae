package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"STOREFRONT_PORT" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"       default:"info"`
	JWTSecret   string `envconfig:"JWT_SECRET"      required:"true"`

	// Simulated payment processor knobs.
	PaymentApprovalRate float64 `envconfig:"PAYMENT_APPROVAL_RATE" default:"0.9"`
	PaymentDelayMs      int     `envconfig:"PAYMENT_DELAY_MS"      default:"150"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err = envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s", config.Port, config.LogLevel)
	})
	return &config
}
