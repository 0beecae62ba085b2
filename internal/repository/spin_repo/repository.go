package spin_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table             = "spin_records"
	colID             = "id"
	colUserID         = "user_id"
	colGameSlug       = "game_slug"
	colSessionID      = "session_id"
	colIdempotencyKey = "idempotency_key"
	colBetAmount      = "bet_amount"
	colWinAmount      = "win_amount"
	colReels          = "reels"
	colWinningLines   = "winning_lines"
	colMultiplier     = "multiplier"
	colBalanceBefore  = "balance_before"
	colBonusBefore    = "bonus_balance_before"
	colBalanceAfter   = "balance_after"
	colBonusAfter     = "bonus_balance_after"
	colCreatedAt      = "created_at"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{
		colID, colUserID, colGameSlug, colSessionID, colIdempotencyKey,
		colBetAmount, colWinAmount, colReels, colWinningLines, colMultiplier,
		colBalanceBefore, colBonusBefore, colBalanceAfter, colBonusAfter, colCreatedAt,
	}
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewSpinRepository(dbc *pgxpool.Pool) repository.SpinRepository {
	return &repo{dbc: dbc}
}

// Create - сохраняет запись о спине.
// Повтор (user_id, idempotency_key) -> apperr.ErrDuplicateSpin
func (r *repo) Create(ctx context.Context, record *model.SpinRecord) error {
	lines := record.WinningLines
	if lines == nil {
		lines = []int{}
	}

	// Формируем запрос
	query := psql.Insert(table).
		Columns(columns[:len(columns)-1]...).
		Values(
			record.ID, record.UserID, record.GameSlug, record.SessionID, record.IdempotencyKey,
			record.BetAmount, record.WinAmount, record.Reels, lines, record.Multiplier,
			record.BalanceBefore.Balance, record.BalanceBefore.BonusBalance,
			record.BalanceAfter.Balance, record.BalanceAfter.BonusBalance,
		).
		Suffix("RETURNING " + colCreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&record.CreatedAt)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.ErrDuplicateSpin
		}
		return err
	}

	return nil
}

// GetByIdempotencyKey - ранее записанный спин пользователя по ключу
func (r *repo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*model.SpinRecord, error) {
	// Формируем запрос
	query := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colUserID: userID, colIdempotencyKey: key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	record, err := scanRecord(trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrSpinNotFound
		}
		return nil, err
	}

	return record, nil
}

// ListByUser - последние спины пользователя, новые первыми
func (r *repo) ListByUser(ctx context.Context, userID string, limit int) ([]model.SpinRecord, error) {
	// Формируем запрос
	query := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colCreatedAt+" DESC", colID).
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.SpinRecord, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*model.SpinRecord, error) {
	var rec model.SpinRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.GameSlug, &rec.SessionID, &rec.IdempotencyKey,
		&rec.BetAmount, &rec.WinAmount, &rec.Reels, &rec.WinningLines, &rec.Multiplier,
		&rec.BalanceBefore.Balance, &rec.BalanceBefore.BonusBalance,
		&rec.BalanceAfter.Balance, &rec.BalanceAfter.BonusBalance,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
