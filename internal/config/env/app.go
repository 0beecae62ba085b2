package env

import (
	"fmt"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type spinEnv struct {
	Timeout       time.Duration `envconfig:"SPIN_TIMEOUT" default:"5s"`
	SettleRetries uint64        `envconfig:"SPIN_SETTLE_RETRIES" default:"3"`
	IdemLockTTL   time.Duration `envconfig:"IDEM_LOCK_TTL" default:"45s"`
	IdemResultTTL time.Duration `envconfig:"IDEM_RESULT_TTL" default:"1m"`
	GamesFile     string        `envconfig:"GAMES_FILE" default:"config/games.yaml"`
}

type spinConfig struct {
	e spinEnv
}

func NewSpinConfig() (config.SpinConfig, error) {
	var e spinEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("spin config: %w", err)
	}
	if e.Timeout <= 0 || e.IdemLockTTL <= 0 || e.IdemResultTTL <= 0 {
		return nil, fmt.Errorf("spin config: timeouts and ttls must be positive")
	}
	return &spinConfig{e: e}, nil
}

func (c *spinConfig) Timeout() time.Duration       { return c.e.Timeout }
func (c *spinConfig) SettleRetries() uint64        { return c.e.SettleRetries }
func (c *spinConfig) IdemLockTTL() time.Duration   { return c.e.IdemLockTTL }
func (c *spinConfig) IdemResultTTL() time.Duration { return c.e.IdemResultTTL }
func (c *spinConfig) GamesFile() string            { return c.e.GamesFile }

type walletEnv struct {
	WelcomeBonus string `envconfig:"WELCOME_BONUS" default:"100"`
}

type walletConfig struct {
	welcomeBonus decimal.Decimal
}

func NewWalletConfig() (config.WalletConfig, error) {
	var e walletEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("wallet config: %w", err)
	}
	bonus, err := decimal.NewFromString(e.WelcomeBonus)
	if err != nil {
		return nil, fmt.Errorf("wallet config: WELCOME_BONUS: %w", err)
	}
	if !bonus.IsPositive() {
		return nil, fmt.Errorf("wallet config: WELCOME_BONUS must be positive")
	}
	return &walletConfig{welcomeBonus: bonus}, nil
}

func (c *walletConfig) WelcomeBonus() decimal.Decimal { return c.welcomeBonus }

type monitorEnv struct {
	QueueSize     int           `envconfig:"MONITOR_QUEUE_SIZE" default:"1024"`
	BatchSize     int           `envconfig:"MONITOR_BATCH_SIZE" default:"100"`
	FlushInterval time.Duration `envconfig:"MONITOR_FLUSH_INTERVAL" default:"5s"`
	Retention     time.Duration `envconfig:"MONITOR_RETENTION" default:"720h"`
}

type monitorConfig struct {
	e monitorEnv
}

func NewMonitorConfig() (config.MonitorConfig, error) {
	var e monitorEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("monitor config: %w", err)
	}
	if e.QueueSize <= 0 || e.BatchSize <= 0 || e.FlushInterval <= 0 {
		return nil, fmt.Errorf("monitor config: queue, batch and interval must be positive")
	}
	if e.BatchSize > e.QueueSize {
		return nil, fmt.Errorf("monitor config: MONITOR_BATCH_SIZE must not exceed MONITOR_QUEUE_SIZE")
	}
	return &monitorConfig{e: e}, nil
}

func (c *monitorConfig) QueueSize() int               { return c.e.QueueSize }
func (c *monitorConfig) BatchSize() int               { return c.e.BatchSize }
func (c *monitorConfig) FlushInterval() time.Duration { return c.e.FlushInterval }
func (c *monitorConfig) Retention() time.Duration     { return c.e.Retention }

type jobsEnv struct {
	ReconcileSchedule string        `envconfig:"JOBS_RECONCILE_SCHEDULE" default:"@every 1m"`
	ReconcileGrace    time.Duration `envconfig:"JOBS_RECONCILE_GRACE" default:"2m"`
	PruneSchedule     string        `envconfig:"JOBS_PRUNE_SCHEDULE" default:"@daily"`
}

type jobsConfig struct {
	e jobsEnv
}

func NewJobsConfig() (config.JobsConfig, error) {
	var e jobsEnv
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("jobs config: %w", err)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for _, schedule := range []string{e.ReconcileSchedule, e.PruneSchedule} {
		if _, err := parser.Parse(schedule); err != nil {
			return nil, fmt.Errorf("jobs config: bad schedule %q: %w", schedule, err)
		}
	}
	return &jobsConfig{e: e}, nil
}

func (c *jobsConfig) ReconcileSchedule() string     { return c.e.ReconcileSchedule }
func (c *jobsConfig) ReconcileGrace() time.Duration { return c.e.ReconcileGrace }
func (c *jobsConfig) PruneSchedule() string         { return c.e.PruneSchedule }
