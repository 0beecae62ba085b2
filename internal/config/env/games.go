package env

import (
	"fmt"
	"os"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type gamesFile struct {
	Games []gameYAML `yaml:"games"`
}

type gameYAML struct {
	Slug     string                       `yaml:"slug"`
	Name     string                       `yaml:"name"`
	Reels    int                          `yaml:"reels"`
	Rows     int                          `yaml:"rows"`
	Symbols  []string                     `yaml:"symbols"`
	Paytable map[string]map[string]string `yaml:"paytable"`
	MinBet   string                       `yaml:"min_bet"`
	MaxBet   string                       `yaml:"max_bet"`
	RTP      string                       `yaml:"rtp"`
	Active   *bool                        `yaml:"active"`
}

// NewGameCatalogFromYAML читает каталог игр из YAML файла
func NewGameCatalogFromYAML(path string) ([]model.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read games file: %w", err)
	}
	return ParseGameCatalog(data)
}

// ParseGameCatalog разбирает и валидирует каталог игр
func ParseGameCatalog(data []byte) ([]model.GameConfig, error) {
	var f gamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse games file: %w", err)
	}
	if len(f.Games) == 0 {
		return nil, fmt.Errorf("games file has no games")
	}

	seen := make(map[string]bool, len(f.Games))
	games := make([]model.GameConfig, 0, len(f.Games))
	for _, g := range f.Games {
		cfg, err := g.toModel()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if seen[cfg.Slug] {
			return nil, fmt.Errorf("duplicate game slug %q", cfg.Slug)
		}
		seen[cfg.Slug] = true
		games = append(games, cfg)
	}

	return games, nil
}

func (g gameYAML) toModel() (model.GameConfig, error) {
	minBet, err := parseDecimal(g.Slug, "min_bet", g.MinBet)
	if err != nil {
		return model.GameConfig{}, err
	}
	maxBet, err := parseDecimal(g.Slug, "max_bet", g.MaxBet)
	if err != nil {
		return model.GameConfig{}, err
	}
	rtp, err := parseDecimal(g.Slug, "rtp", g.RTP)
	if err != nil {
		return model.GameConfig{}, err
	}

	paytable := make(model.Paytable, len(g.Paytable))
	for symbol, counts := range g.Paytable {
		paytable[symbol] = make(map[string]decimal.Decimal, len(counts))
		for count, raw := range counts {
			mult, err := parseDecimal(g.Slug, "paytable."+symbol+"."+count, raw)
			if err != nil {
				return model.GameConfig{}, err
			}
			paytable[symbol][count] = mult
		}
	}

	active := true
	if g.Active != nil {
		active = *g.Active
	}

	return model.GameConfig{
		Slug:     g.Slug,
		Name:     g.Name,
		Reels:    g.Reels,
		Rows:     g.Rows,
		Symbols:  g.Symbols,
		Paytable: paytable,
		MinBet:   minBet,
		MaxBet:   maxBet,
		RTP:      rtp,
		Active:   active,
	}, nil
}

func parseDecimal(slug, field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("game %s: invalid %s %q: %w", slug, field, raw, err)
	}
	return d, nil
}
