package game_repo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table       = "games"
	colSlug     = "slug"
	colName     = "name"
	colReels    = "reel_count"
	colRows     = "row_count"
	colSymbols  = "symbols"
	colPaytable = "paytable"
	colMinBet   = "min_bet"
	colMaxBet   = "max_bet"
	colRTP      = "rtp"
	colActive   = "active"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{colSlug, colName, colReels, colRows, colSymbols, colPaytable, colMinBet, colMaxBet, colRTP, colActive}
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewGameRepository(dbc *pgxpool.Pool) repository.GameRepository {
	return &repo{dbc: dbc}
}

// GetBySlug - конфигурация игры по slug
func (r *repo) GetBySlug(ctx context.Context, slug string) (*model.GameConfig, error) {
	sqlStr, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colSlug: slug}).
		ToSql()
	if err != nil {
		return nil, err
	}

	game, err := scanGame(trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrGameNotFound
		}
		return nil, err
	}

	return game, nil
}

// List - все активные игры
func (r *repo) List(ctx context.Context) ([]model.GameConfig, error) {
	sqlStr, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colActive: true}).
		OrderBy(colSlug).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []model.GameConfig
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}

	return games, rows.Err()
}

// Upsert - создаёт или обновляет игру из каталога
func (r *repo) Upsert(ctx context.Context, game model.GameConfig) error {
	sqlStr, args, err := psql.Insert(table).
		Columns(columns...).
		Values(game.Slug, game.Name, game.Reels, game.Rows, game.Symbols, game.Paytable,
			game.MinBet, game.MaxBet, game.RTP, game.Active).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%[1]s) DO UPDATE SET %[2]s = EXCLUDED.%[2]s, %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, "+
				"%[5]s = EXCLUDED.%[5]s, %[6]s = EXCLUDED.%[6]s, %[7]s = EXCLUDED.%[7]s, %[8]s = EXCLUDED.%[8]s, "+
				"%[9]s = EXCLUDED.%[9]s, %[10]s = EXCLUDED.%[10]s",
			colSlug, colName, colReels, colRows, colSymbols, colPaytable, colMinBet, colMaxBet, colRTP, colActive,
		)).
		ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

func scanGame(row pgx.Row) (*model.GameConfig, error) {
	var g model.GameConfig
	err := row.Scan(&g.Slug, &g.Name, &g.Reels, &g.Rows, &g.Symbols, &g.Paytable, &g.MinBet, &g.MaxBet, &g.RTP, &g.Active)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
