package session_repo

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table         = "game_sessions"
	colID         = "id"
	colUserID     = "user_id"
	colGameSlug   = "game_slug"
	colTotalSpins = "total_spins"
	colTotalBet   = "total_bet"
	colTotalWin   = "total_win"
	colCreatedAt  = "created_at"
	colUpdatedAt  = "updated_at"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{colID, colUserID, colGameSlug, colTotalSpins, colTotalBet, colTotalWin, colCreatedAt, colUpdatedAt}
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewGameSessionRepository(dbc *pgxpool.Pool) repository.GameSessionRepository {
	return &repo{dbc: dbc}
}

// Create - новая сессия с нулевыми счётчиками.
// ID и даты заполняются из БД
func (r *repo) Create(ctx context.Context, session *model.GameSession) error {
	// Формируем запрос
	query := psql.Insert(table).
		Columns(colUserID, colGameSlug).
		Values(session.UserID, session.GameSlug).
		Suffix("RETURNING " + colID + ", " + colCreatedAt + ", " + colUpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
}

func (r *repo) GetByID(ctx context.Context, id string) (*model.GameSession, error) {
	// Формируем запрос
	query := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colID: id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanSession(trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
}

// Increment - прибавляет дельту одним UPDATE, без чтения
func (r *repo) Increment(ctx context.Context, id string, delta model.SessionDelta) (*model.GameSession, error) {
	// Формируем запрос
	query := psql.Update(table).
		Set(colTotalSpins, sq.Expr(colTotalSpins+" + ?", delta.Spins)).
		Set(colTotalBet, sq.Expr(colTotalBet+" + ?", delta.Bet)).
		Set(colTotalWin, sq.Expr(colTotalWin+" + ?", delta.Win)).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colID: id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanSession(trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
}

func scanSession(row pgx.Row) (*model.GameSession, error) {
	var s model.GameSession
	err := row.Scan(&s.ID, &s.UserID, &s.GameSlug, &s.TotalSpins, &s.TotalBet, &s.TotalWin, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}
