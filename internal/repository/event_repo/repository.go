package event_repo

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table         = "analytics_events"
	colName       = "name"
	colUserID     = "user_id"
	colPayload    = "payload"
	colOccurredAt = "occurred_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc *pgxpool.Pool
}

func NewEventRepository(dbc *pgxpool.Pool) repository.EventRepository {
	return &repo{dbc: dbc}
}

// WriteEvents - пачка событий через COPY.
// События не участвуют в транзакциях спина
func (r *repo) WriteEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	_, err := r.dbc.CopyFrom(ctx,
		pgx.Identifier{table},
		[]string{colName, colUserID, colPayload, colOccurredAt},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			payload := e.Payload
			if payload == nil {
				payload = map[string]any{}
			}
			return []any{e.Name, e.UserID, payload, e.OccurredAt}, nil
		}),
	)
	return err
}

// DeleteOlderThan - удаляет события старше before, возвращает число удалённых
func (r *repo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	// Формируем запрос
	query := psql.Delete(table).
		Where(sq.Lt{colOccurredAt: before})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.dbc.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
