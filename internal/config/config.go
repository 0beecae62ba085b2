package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	RequestTimeout() time.Duration
	AllowedOrigins() []string
}

type PGConfig interface {
	DSN() string
	MaxConns() int32
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

type RedisConfig interface {
	Enabled() bool
	Addr() string
	Password() string
	DB() int
}

type SpinConfig interface {
	// Timeout - ограничение на работу с БД, если у запроса нет дедлайна
	Timeout() time.Duration
	SettleRetries() uint64
	IdemLockTTL() time.Duration
	IdemResultTTL() time.Duration
	GamesFile() string
}

type WalletConfig interface {
	WelcomeBonus() decimal.Decimal
}

type MonitorConfig interface {
	QueueSize() int
	BatchSize() int
	FlushInterval() time.Duration
	Retention() time.Duration
}

type JobsConfig interface {
	ReconcileSchedule() string
	ReconcileGrace() time.Duration
	PruneSchedule() string
}
