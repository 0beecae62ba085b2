package env

import (
	"fmt"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/kelseyhightower/envconfig"
)

type pgEnv struct {
	DSN      string `envconfig:"PG_DSN" required:"true"`
	MaxConns int32  `envconfig:"PG_MAX_CONNS" default:"20"`
}

type pgConfig struct {
	dsn      string
	maxConns int32
}

func NewPGConfig() (config.PGConfig, error) {
	var e pgEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("pg config: %w", err)
	}
	if e.MaxConns <= 0 {
		return nil, fmt.Errorf("pg config: PG_MAX_CONNS must be > 0")
	}

	return &pgConfig{
		dsn:      e.DSN,
		maxConns: e.MaxConns,
	}, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}

func (cfg *pgConfig) MaxConns() int32 {
	return cfg.maxConns
}
