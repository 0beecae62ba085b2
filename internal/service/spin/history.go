package spin

import (
	"context"

	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History - последние спины пользователя
func (s *serv) History(ctx context.Context, userID string, limit int) ([]model.SpinRecord, error) {
	return s.spins.ListByUser(ctx, userID, ClampLimit(limit))
}

// Session - агрегаты сессии. Чужая сессия неотличима от несуществующей
func (s *serv) Session(ctx context.Context, userID, sessionID string) (*model.GameSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, apperr.ErrSessionNotFound
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.ErrSessionNotFound
	}
	return session, nil
}

// ClampLimit приводит limit к (0, maxHistoryLimit]
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}
