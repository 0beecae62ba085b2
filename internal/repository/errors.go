package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ErrLockNotOwned - блокировка идемпотентности истекла или принадлежит другому запросу
var ErrLockNotOwned = errors.New("idempotency lock is not owned")

// IsUniqueViolation - нарушено ограничение уникальности
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
