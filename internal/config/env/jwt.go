package env

import (
	"fmt"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/kelseyhightower/envconfig"
)

type jwtEnv struct {
	AccessTokenSecretKey string        `envconfig:"ACCESS_TOKEN" required:"true"`
	AccessTokenDuration  time.Duration `envconfig:"ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration time.Duration `envconfig:"REFRESH_TOKEN_DURATION" default:"720h"`
}

type jwtConfig struct {
	refreshTokenDuration time.Duration
	accessTokenSecretKey string
	accessTokenDuration  time.Duration
}

func NewJWTConfig() (config.JWTConfig, error) {
	var e jwtEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("jwt config: %w", err)
	}

	if e.AccessTokenDuration <= 0 || e.RefreshTokenDuration <= 0 {
		return nil, fmt.Errorf("jwt config: token durations must be positive")
	}

	return &jwtConfig{
		accessTokenSecretKey: e.AccessTokenSecretKey,
		refreshTokenDuration: e.RefreshTokenDuration,
		accessTokenDuration:  e.AccessTokenDuration,
	}, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.accessTokenSecretKey)
}

func (j *jwtConfig) RefreshTokenDuration() time.Duration {
	return j.refreshTokenDuration
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.accessTokenDuration
}
