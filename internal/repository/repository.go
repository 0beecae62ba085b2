package repository

import (
	"context"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id string, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetWallet(ctx context.Context, userID string) (*model.Wallet, error)
	// CompareAndSetWallet записывает баланс, только если версия не изменилась.
	// Иначе apperr.ErrBalanceConflict
	CompareAndSetWallet(ctx context.Context, userID string, version int64, state model.BalanceState) (newVersion int64, err error)
}

type GameRepository interface {
	GetBySlug(ctx context.Context, slug string) (*model.GameConfig, error)
	List(ctx context.Context) ([]model.GameConfig, error)
	Upsert(ctx context.Context, game model.GameConfig) error
}

type GameSessionRepository interface {
	Create(ctx context.Context, session *model.GameSession) error
	GetByID(ctx context.Context, id string) (*model.GameSession, error)
	// Increment атомарно прибавляет дельту к агрегатам
	Increment(ctx context.Context, id string, delta model.SessionDelta) (*model.GameSession, error)
}

type SpinRepository interface {
	// Create возвращает apperr.ErrDuplicateSpin при повторном ключе идемпотентности
	Create(ctx context.Context, record *model.SpinRecord) error
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*model.SpinRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.SpinRecord, error)
}

type LedgerRepository interface {
	Append(ctx context.Context, userID string, entries []model.LedgerEntry) error
	ExistsReference(ctx context.Context, userID string, kind model.LedgerKind, reference string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.LedgerEntry, error)
}

type ReconciliationRepository interface {
	Create(ctx context.Context, rec *model.Reconciliation) error
	ListPending(ctx context.Context, limit int) ([]model.Reconciliation, error)
	Resolve(ctx context.Context, id int64, status model.ReconciliationStatus) error
}

type EventRepository interface {
	WriteEvents(ctx context.Context, events []model.Event) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// IdempotencyRepository - быстрый кэш результатов и блокировка повторов
type IdempotencyRepository interface {
	GetResult(ctx context.Context, userID, key string) ([]byte, bool)
	SaveResult(ctx context.Context, userID, key string, data []byte, ttl time.Duration) error
	// Lock возвращает токен владельца, если блокировка взята
	Lock(ctx context.Context, userID, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, userID, key, token string) error
}

// RTPStatsRepository - наблюдаемый RTP в памяти процесса
type RTPStatsRepository interface {
	Record(slug string, targetRTP, bet, win decimal.Decimal) model.RTPSnapshot
	Snapshot(slug string) (model.RTPSnapshot, bool)
}
