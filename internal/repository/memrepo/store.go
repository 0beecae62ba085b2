// Package memrepo - репозитории в памяти процесса с откатом транзакций.
// Используется в тестах сервисов и фоновых задач.
package memrepo

import (
	"context"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type userRow struct {
	user   model.User
	wallet model.Wallet
}

type state struct {
	users        map[string]userRow
	authSessions map[string]model.Session
	games        map[string]model.GameConfig
	gameSessions map[string]model.GameSession
	spins        []model.SpinRecord
	ledger       []model.LedgerEntry
	recs         []model.Reconciliation
	events       []model.Event
	seq          int64
}

func (s state) clone() state {
	out := state{
		users:        make(map[string]userRow, len(s.users)),
		authSessions: make(map[string]model.Session, len(s.authSessions)),
		games:        make(map[string]model.GameConfig, len(s.games)),
		gameSessions: make(map[string]model.GameSession, len(s.gameSessions)),
		spins:        append([]model.SpinRecord(nil), s.spins...),
		ledger:       append([]model.LedgerEntry(nil), s.ledger...),
		recs:         append([]model.Reconciliation(nil), s.recs...),
		events:       append([]model.Event(nil), s.events...),
		seq:          s.seq,
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.authSessions {
		out.authSessions[k] = v
	}
	for k, v := range s.games {
		out.games[k] = v
	}
	for k, v := range s.gameSessions {
		out.gameSessions[k] = v
	}
	return out
}

// cents округляет как колонка numeric(20,2)
func cents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(model.MoneyPlaces)
}

func centsState(st model.BalanceState) model.BalanceState {
	return model.BalanceState{Balance: cents(st.Balance), BonusBalance: cents(st.BonusBalance)}
}

// Store - общее состояние всех репозиториев
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state

	fail      map[string]error
	beforeCAS []func()
	// изменения кошельков "из другой транзакции", переживают откат текущей
	external []userRow
}

func New() *Store {
	return &Store{
		data: state{
			users:        make(map[string]userRow),
			authSessions: make(map[string]model.Session),
			games:        make(map[string]model.GameConfig),
			gameSessions: make(map[string]model.GameSession),
		},
		fail: make(map[string]error),
	}
}

// FailOnce - следующая операция op вернёт err.
// op вида "spins.Create", "ledger.Append", "sessions.Increment"
func (s *Store) FailOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// BeforeCAS - fn выполнится перед очередной проверкой версии кошелька.
// Каждая проверка забирает по одному fn
func (s *Store) BeforeCAS(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeCAS = append(s.beforeCAS, fn)
}

func (s *Store) failure(op string) error {
	err, ok := s.fail[op]
	if ok {
		delete(s.fail, op)
	}
	return err
}

func (s *Store) nextID() int64 {
	s.data.seq++
	return s.data.seq
}

// AddUser - пользователь с заданными балансами
func (s *Store) AddUser(id, login string, balance, bonus decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[id] = userRow{
		user: model.User{ID: id, Name: login, Login: login},
		wallet: model.Wallet{
			UserID:       id,
			BalanceState: centsState(model.BalanceState{Balance: balance, BonusBalance: bonus}),
		},
	}
}

func (s *Store) AddGame(game model.GameConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.games[game.Slug] = game
}

// SetWallet - меняет баланс в обход сервисов, увеличивая версию
func (s *Store) SetWallet(userID string, st model.BalanceState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.data.users[userID]
	row.wallet.BalanceState = centsState(st)
	row.wallet.Version++
	s.data.users[userID] = row
	s.external = append(s.external, row)
}

func (s *Store) WalletOf(userID string) model.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[userID].wallet
}

func (s *Store) SpinRecords() []model.SpinRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SpinRecord(nil), s.data.spins...)
}

func (s *Store) LedgerEntries() []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LedgerEntry(nil), s.data.ledger...)
}

func (s *Store) ReconciliationRows() []model.Reconciliation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Reconciliation(nil), s.data.recs...)
}

func (s *Store) GameSessionByID(id string) (model.GameSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.data.gameSessions[id]
	return gs, ok
}

func (s *Store) StoredEvents() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.data.events...)
}

// TxManager - транзакции сериализуются, при ошибке состояние откатывается
func (s *Store) TxManager() trm.Manager {
	return &txManager{store: s}
}

type txKey struct{}

type txManager struct {
	store *Store
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенная транзакция работает в рамках внешней
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.data.clone()
	m.store.external = nil
	m.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.mu.Lock()
		m.store.data = snapshot
		for _, row := range m.store.external {
			m.store.data.users[row.user.ID] = row
		}
		m.store.mu.Unlock()
		return err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.failure("tx.Commit")
}

func (m *txManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
