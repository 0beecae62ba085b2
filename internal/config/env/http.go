package env

import (
	"fmt"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/kelseyhightower/envconfig"
)

type httpEnv struct {
	Address        string        `envconfig:"HTTP_ADDRESS" default:":8080"`
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"10s"`
	AllowedOrigins []string      `envconfig:"HTTP_ALLOWED_ORIGINS" default:"*"`
}

type httpConfig struct {
	address        string
	requestTimeout time.Duration
	allowedOrigins []string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	var e httpEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("http config: %w", err)
	}
	if e.RequestTimeout <= 0 {
		return nil, fmt.Errorf("http config: HTTP_REQUEST_TIMEOUT must be positive")
	}

	return &httpConfig{
		address:        e.Address,
		requestTimeout: e.RequestTimeout,
		allowedOrigins: e.AllowedOrigins,
	}, nil
}

func (c *httpConfig) Address() string {
	return c.address
}

func (c *httpConfig) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c *httpConfig) AllowedOrigins() []string {
	return c.allowedOrigins
}
