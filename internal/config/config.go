// Package config содержит логику чтения конфигурации витрины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultQRServiceAddress = "https://api.qrserver.com"
	defaultPixKey           = "pix@levenuts.com.br"
	defaultCardDelay        = 1 * time.Second
	defaultPixDelay         = 400 * time.Millisecond
)

// Config содержит параметры конфигурации витрины.
type Config struct {
	RunAddress         string        `env:"RUN_ADDRESS"`
	DatabaseURI        string        `env:"DATABASE_URI"`
	CatalogPath        string        `env:"CATALOG_PATH"`
	CookieSecret       string        `env:"COOKIE_SECRET"`
	PixKey             string        `env:"PIX_KEY"`
	QRServiceAddress   string        `env:"QR_SERVICE_ADDRESS"`
	CardProcessingTime time.Duration `env:"CARD_PROCESSING_DELAY"`
	PixProcessingTime  time.Duration `env:"PIX_PROCESSING_DELAY"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Заданная переменная окружения имеет приоритет над флагом, даже если её значение нулевое.
func Parse() (*Config, error) {
	cfg := &Config{}
	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI (postgres:// or sqlite file path, empty for in-memory)")
	flag.StringVar(&cfg.CatalogPath, "c", "", "product catalog YAML file")
	flag.StringVar(&cfg.CookieSecret, "s", "", "secret for signing profile cookies")
	flag.StringVar(&cfg.PixKey, "p", defaultPixKey, "store Pix key")
	flag.StringVar(&cfg.QRServiceAddress, "q", defaultQRServiceAddress, "QR code generator address")
	flag.DurationVar(&cfg.CardProcessingTime, "card-delay", defaultCardDelay, "simulated card processing delay")
	flag.DurationVar(&cfg.PixProcessingTime, "pix-delay", defaultPixDelay, "simulated Pix processing delay")

	flag.Parse()

	// env.Parse меняет только поля, для которых переменная задана.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.CardProcessingTime < 0 || cfg.PixProcessingTime < 0 {
		return nil, fmt.Errorf("processing delays must not be negative")
	}

	return cfg, nil
}

// ParseEnv считывает только переменные окружения.
func ParseEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
