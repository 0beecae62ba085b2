package env

import (
	"fmt"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/kelseyhightower/envconfig"
)

type redisEnv struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

// NewRedisConfig - пустой REDIS_ADDR отключает кэш идемпотентности
func NewRedisConfig() (config.RedisConfig, error) {
	var e redisEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	return &redisConfig{
		addr:     e.Addr,
		password: e.Password,
		db:       e.DB,
	}, nil
}

func (c *redisConfig) Enabled() bool {
	return c.addr != ""
}

func (c *redisConfig) Addr() string {
	return c.addr
}

func (c *redisConfig) Password() string {
	return c.password
}

func (c *redisConfig) DB() int {
	return c.db
}
