package reconciliation_repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	table             = "spin_reconciliations"
	colID             = "id"
	colUserID         = "user_id"
	colIdempotencyKey = "idempotency_key"
	colGameSlug       = "game_slug"
	colSpinID         = "spin_id"
	colBetAmount      = "bet_amount"
	colOutcome        = "outcome"
	colReason         = "reason"
	colStatus         = "status"
	colCreatedAt      = "created_at"
	colResolvedAt     = "resolved_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// outcomeJSON - форма исхода в jsonb колонке
type outcomeJSON struct {
	Reels        [][]string `json:"reels"`
	WinAmount    string     `json:"win_amount"`
	WinningLines []int      `json:"winning_lines"`
	Multiplier   int        `json:"multiplier"`
}

type repo struct {
	dbc *pgxpool.Pool
}

func NewReconciliationRepository(dbc *pgxpool.Pool) repository.ReconciliationRepository {
	return &repo{dbc: dbc}
}

// Create - помечает спин для ручной или фоновой сверки
func (r *repo) Create(ctx context.Context, rec *model.Reconciliation) error {
	outcome := outcomeJSON{
		Reels:        rec.Outcome.Reels,
		WinAmount:    rec.Outcome.WinAmount.String(),
		WinningLines: rec.Outcome.WinningLines,
		Multiplier:   rec.Outcome.Multiplier,
	}

	// Формируем запрос
	query := psql.Insert(table).
		Columns(colUserID, colIdempotencyKey, colGameSlug, colSpinID, colBetAmount, colOutcome, colReason, colStatus).
		Values(rec.UserID, rec.IdempotencyKey, rec.GameSlug, rec.SpinID, rec.BetAmount, outcome, rec.Reason, string(model.ReconciliationPending)).
		Suffix("RETURNING " + colID + ", " + colCreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	rec.Status = model.ReconciliationPending
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&rec.ID, &rec.CreatedAt)
}

// ListPending - самые старые нерешённые записи
func (r *repo) ListPending(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	// Формируем запрос
	query := psql.Select(colID, colUserID, colIdempotencyKey, colGameSlug, colSpinID, colBetAmount, colOutcome, colReason, colStatus, colCreatedAt).
		From(table).
		Where(sq.Eq{colStatus: string(model.ReconciliationPending)}).
		OrderBy(colID).
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

	var recs []model.Reconciliation
	for rows.Next() {
		var (
			rec     model.Reconciliation
			outcome outcomeJSON
			status  string
		)
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.IdempotencyKey, &rec.GameSlug, &rec.SpinID,
			&rec.BetAmount, &outcome, &rec.Reason, &status, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.Status = model.ReconciliationStatus(status)
		rec.Outcome = model.SpinOutcome{
			Reels:        outcome.Reels,
			WinningLines: outcome.WinningLines,
			Multiplier:   outcome.Multiplier,
		}
		if win, err := decimal.NewFromString(outcome.WinAmount); err == nil {
			rec.Outcome.WinAmount = win
			rec.Outcome.IsWin = win.IsPositive()
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// Resolve - закрывает запись итоговым статусом
func (r *repo) Resolve(ctx context.Context, id int64, status model.ReconciliationStatus) error {
	// Формируем запрос
	query := psql.Update(table).
		Set(colStatus, string(status)).
		Set(colResolvedAt, sq.Expr("now()")).
		Where(sq.Eq{colID: id, colStatus: string(model.ReconciliationPending)})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
