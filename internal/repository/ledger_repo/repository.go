package ledger_repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "wallet_ledger"
	colID          = "id"
	colUserID      = "user_id"
	colKind        = "kind"
	colDirection   = "direction"
	colAmount      = "amount"
	colCashAmount  = "cash_amount"
	colBonusAmount = "bonus_amount"
	colReference   = "reference"
	colCreatedAt   = "created_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc *pgxpool.Pool
}

func NewLedgerRepository(dbc *pgxpool.Pool) repository.LedgerRepository {
	return &repo{dbc: dbc}
}

// Append - дописывает проводки одним INSERT.
// Повтор (user_id, kind, reference) -> apperr.ErrDuplicateSpin
func (r *repo) Append(ctx context.Context, userID string, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Формируем запрос
	query := psql.Insert(table).
		Columns(colUserID, colKind, colDirection, colAmount, colCashAmount, colBonusAmount, colReference)
	for _, e := range entries {
		query = query.Values(userID, string(e.Kind), string(e.Direction), e.Amount, e.CashAmount, e.BonusAmount, e.Reference)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.ErrDuplicateSpin
		}
		return err
	}

	return nil
}

// ExistsReference - есть ли уже проводка такого вида с этой ссылкой
func (r *repo) ExistsReference(ctx context.Context, userID string, kind model.LedgerKind, reference string) (bool, error) {
	// Формируем запрос
	query := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(sq.Eq{colUserID: userID, colKind: string(kind), colReference: reference}).
		Suffix(")")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&exists)
	return exists, err
}

// ListByUser - последние проводки пользователя
func (r *repo) ListByUser(ctx context.Context, userID string, limit int) ([]model.LedgerEntry, error) {
	// Формируем запрос
	query := psql.Select(colID, colUserID, colKind, colDirection, colAmount, colCashAmount, colBonusAmount, colReference, colCreatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colID + " DESC").
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

	entries := make([]model.LedgerEntry, 0, limit)
	for rows.Next() {
		var (
			e         model.LedgerEntry
			kind, dir string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &dir, &e.Amount, &e.CashAmount, &e.BonusAmount, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = model.LedgerKind(kind)
		e.Direction = model.Direction(dir)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
