package memrepo

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
)

func (s *Store) Users() repository.UserRepository                     { return users{s} }
func (s *Store) Auth() repository.AuthRepository                      { return auth{s} }
func (s *Store) Games() repository.GameRepository                     { return games{s} }
func (s *Store) GameSessions() repository.GameSessionRepository       { return gameSessions{s} }
func (s *Store) Spins() repository.SpinRepository                     { return spins{s} }
func (s *Store) Ledger() repository.LedgerRepository                  { return ledger{s} }
func (s *Store) Reconciliations() repository.ReconciliationRepository { return recs{s} }
func (s *Store) Events() repository.EventRepository                   { return events{s} }

type users struct{ *Store }

func (r users) CreateUser(_ context.Context, user *model.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.data.users {
		if row.user.Login == user.Login {
			return "", apperr.ErrLoginTaken
		}
	}
	id := uuid.NewString()
	u := *user
	u.ID = id
	u.CreatedAt = time.Now()
	r.data.users[id] = userRow{user: u, wallet: model.Wallet{UserID: id}}
	return id, nil
}

func (r users) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.data.users {
		if row.user.Login == login {
			u := row.user
			return &u, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

func (r users) GetWallet(_ context.Context, userID string) (*model.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("users.GetWallet"); err != nil {
		return nil, err
	}
	row, ok := r.data.users[userID]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	w := row.wallet
	return &w, nil
}

func (r users) CompareAndSetWallet(_ context.Context, userID string, version int64, st model.BalanceState) (int64, error) {
	r.mu.Lock()
	var hook func()
	if len(r.beforeCAS) > 0 {
		hook = r.beforeCAS[0]
		r.beforeCAS = r.beforeCAS[1:]
	}
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("users.CompareAndSetWallet"); err != nil {
		return 0, err
	}
	row, ok := r.data.users[userID]
	if !ok || row.wallet.Version != version {
		return 0, apperr.ErrBalanceConflict
	}
	row.wallet.BalanceState = centsState(st)
	row.wallet.Version++
	r.data.users[userID] = row
	return row.wallet.Version, nil
}

type auth struct{ *Store }

func (r auth) CreateSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.authSessions[session.ID] = *session
	return nil
}

func (r auth) GetRefreshTokenBySessionID(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.data.authSessions[sessionID]
	if !ok || !sess.ExpiresAt.After(time.Now()) {
		return "", apperr.ErrUnauthorized
	}
	return sess.RefreshToken, nil
}

func (r auth) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data.authSessions, sessionID)
	return nil
}

func (r auth) GetUserBySessionID(_ context.Context, sessionID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.data.authSessions[sessionID]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	row, ok := r.data.users[sess.UserID]
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	u := row.user
	return &u, nil
}

type games struct{ *Store }

func (r games) GetBySlug(_ context.Context, slug string) (*model.GameConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.data.games[slug]
	if !ok {
		return nil, apperr.ErrGameNotFound
	}
	return &g, nil
}

func (r games) List(_ context.Context) ([]model.GameConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.GameConfig
	for _, g := range r.data.games {
		if g.Active {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r games) Upsert(_ context.Context, game model.GameConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	game.MinBet, game.MaxBet = cents(game.MinBet), cents(game.MaxBet)
	r.data.games[game.Slug] = game
	return nil
}

type gameSessions struct{ *Store }

func (r gameSessions) Create(_ context.Context, session *model.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	r.data.gameSessions[session.ID] = *session
	return nil
}

func (r gameSessions) GetByID(_ context.Context, id string) (*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gs, ok := r.data.gameSessions[id]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	return &gs, nil
}

func (r gameSessions) Increment(_ context.Context, id string, delta model.SessionDelta) (*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("sessions.Increment"); err != nil {
		return nil, err
	}
	gs, ok := r.data.gameSessions[id]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	delta.Bet, delta.Win = cents(delta.Bet), cents(delta.Win)
	gs = delta.Apply(gs)
	gs.UpdatedAt = time.Now()
	r.data.gameSessions[id] = gs
	return &gs, nil
}

type spins struct{ *Store }

func (r spins) Create(_ context.Context, record *model.SpinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("spins.Create"); err != nil {
		return err
	}
	for _, rec := range r.data.spins {
		if rec.UserID == record.UserID && rec.IdempotencyKey == record.IdempotencyKey {
			return apperr.ErrDuplicateSpin
		}
	}
	record.CreatedAt = time.Now()
	stored := *record
	stored.BetAmount = cents(stored.BetAmount)
	stored.WinAmount = cents(stored.WinAmount)
	stored.BalanceBefore = centsState(stored.BalanceBefore)
	stored.BalanceAfter = centsState(stored.BalanceAfter)
	r.data.spins = append(r.data.spins, stored)
	return nil
}

func (r spins) GetByIdempotencyKey(_ context.Context, userID, key string) (*model.SpinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.data.spins {
		if rec.UserID == userID && rec.IdempotencyKey == key {
			out := rec
			return &out, nil
		}
	}
	return nil, apperr.ErrSpinNotFound
}

func (r spins) ListByUser(_ context.Context, userID string, limit int) ([]model.SpinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SpinRecord, 0, limit)
	for i := len(r.data.spins) - 1; i >= 0 && len(out) < limit; i-- {
		if r.data.spins[i].UserID == userID {
			out = append(out, r.data.spins[i])
		}
	}
	return out, nil
}

type ledger struct{ *Store }

func (r ledger) Append(_ context.Context, userID string, entries []model.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ledger.Append"); err != nil {
		return err
	}
	for _, e := range entries {
		for _, existing := range r.data.ledger {
			if existing.UserID == userID && existing.Kind == e.Kind && existing.Reference == e.Reference {
				return apperr.ErrDuplicateSpin
			}
		}
	}
	for _, e := range entries {
		e.ID = r.nextID()
		e.UserID = userID
		e.CreatedAt = time.Now()
		e.Amount, e.CashAmount, e.BonusAmount = cents(e.Amount), cents(e.CashAmount), cents(e.BonusAmount)
		r.data.ledger = append(r.data.ledger, e)
	}
	return nil
}

func (r ledger) ExistsReference(_ context.Context, userID string, kind model.LedgerKind, reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.data.ledger {
		if e.UserID == userID && e.Kind == kind && e.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r ledger) ListByUser(_ context.Context, userID string, limit int) ([]model.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.LedgerEntry, 0, limit)
	for i := len(r.data.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.data.ledger[i].UserID == userID {
			out = append(out, r.data.ledger[i])
		}
	}
	return out, nil
}

type recs struct{ *Store }

func (r recs) Create(_ context.Context, rec *model.Reconciliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("reconciliations.Create"); err != nil {
		return err
	}
	rec.ID = r.nextID()
	rec.Status = model.ReconciliationPending
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.data.recs = append(r.data.recs, *rec)
	return nil
}

func (r recs) ListPending(_ context.Context, limit int) ([]model.Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Reconciliation
	for _, rec := range r.data.recs {
		if rec.Status == model.ReconciliationPending && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r recs) Resolve(_ context.Context, id int64, status model.ReconciliationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.recs {
		if r.data.recs[i].ID == id && r.data.recs[i].Status == model.ReconciliationPending {
			now := time.Now()
			r.data.recs[i].Status = status
			r.data.recs[i].ResolvedAt = &now
		}
	}
	return nil
}

type events struct{ *Store }

func (r events) WriteEvents(_ context.Context, evs []model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("events.WriteEvents"); err != nil {
		return err
	}
	r.data.events = append(r.data.events, evs...)
	return nil
}

func (r events) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.data.events[:0]
	var deleted int64
	for _, e := range r.data.events {
		if e.OccurredAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.data.events = kept
	return deleted, nil
}
