package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const catalogYAML = `
games:
  - slug: fruit-classic
    name: Fruit Classic
    reels: 5
    rows: 3
    symbols: [cherry, lemon, bell, wild, scatter]
    paytable:
      cherry: {"3": 2, "4": 5, "5": 20}
      wild: {"multiplier": 2}
    min_bet: 0.5
    max_bet: 100
    rtp: 96
  - slug: retired
    name: Retired
    reels: 3
    rows: 1
    symbols: [seven]
    paytable: {}
    min_bet: 1
    max_bet: 1
    rtp: 90
    active: false
`

func TestParseGameCatalog(t *testing.T) {
	games, err := ParseGameCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("ParseGameCatalog() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	fruit := games[0]
	if fruit.Slug != "fruit-classic" || fruit.Reels != 5 || fruit.Rows != 3 || !fruit.Active {
		t.Errorf("unexpected game %+v", fruit)
	}
	if !fruit.Paytable["cherry"]["5"].Equal(decimal.NewFromInt(20)) {
		t.Errorf("cherry/5 = %s", fruit.Paytable["cherry"]["5"])
	}
	if !fruit.Paytable["wild"]["multiplier"].Equal(decimal.NewFromInt(2)) {
		t.Errorf("wild multiplier = %s", fruit.Paytable["wild"]["multiplier"])
	}
	if !fruit.MinBet.Equal(decimal.RequireFromString("0.5")) || !fruit.RTP.Equal(decimal.NewFromInt(96)) {
		t.Errorf("limits = %s/%s rtp=%s", fruit.MinBet, fruit.MaxBet, fruit.RTP)
	}
	if games[1].Active {
		t.Error("retired game must be inactive")
	}
}

func TestParseGameCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "games: []", "no games"},
		{"bad rtp", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: 1, max_bet: 2, rtp: 120}", "rtp"},
		{"bad limits", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: 5, max_bet: 2, rtp: 90}", "bet limits"},
		{"sub-cent limits", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: 0.005, max_bet: 2, rtp: 90}", "bet limits"},
		{"no symbols", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [], min_bet: 1, max_bet: 2, rtp: 90}", "symbol set"},
		{"bad number", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: abc, max_bet: 2, rtp: 90}", "min_bet"},
		{"duplicate", "games:\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: 1, max_bet: 2, rtp: 90}\n  - {slug: a, reels: 3, rows: 1, symbols: [x], min_bet: 1, max_bet: 2, rtp: 90}", "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameCatalog([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewGameCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	games, err := NewGameCatalogFromYAML(path)
	if err != nil {
		t.Fatalf("NewGameCatalogFromYAML() error = %v", err)
	}
	if len(games) != 2 {
		t.Errorf("got %d games", len(games))
	}

	if _, err := NewGameCatalogFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewSpinConfigDefaults(t *testing.T) {
	t.Setenv("SPIN_TIMEOUT", "1s")
	os.Unsetenv("SPIN_TIMEOUT")
	t.Setenv("IDEM_LOCK_TTL", "30s")

	cfg, err := NewSpinConfig()
	if err != nil {
		t.Fatalf("NewSpinConfig() error = %v", err)
	}
	if cfg.Timeout().Seconds() != 5 {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout())
	}
	if cfg.IdemLockTTL().Seconds() != 30 {
		t.Errorf("IdemLockTTL = %v, want 30s", cfg.IdemLockTTL())
	}
	if cfg.SettleRetries() != 3 {
		t.Errorf("SettleRetries = %d, want 3", cfg.SettleRetries())
	}
}

func TestNewJobsConfigRejectsBadSchedule(t *testing.T) {
	t.Setenv("JOBS_RECONCILE_SCHEDULE", "every minute please")

	if _, err := NewJobsConfig(); err == nil {
		t.Error("expected error for bad cron schedule")
	}
}
