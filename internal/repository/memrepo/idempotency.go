package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/repository"
)

// Idempotency - кэш ответов и блокировки без Redis. TTL не учитывается
type Idempotency struct {
	mu      sync.Mutex
	results map[string][]byte
	locks   map[string]string
}

func NewIdempotency() *Idempotency {
	return &Idempotency{
		results: make(map[string][]byte),
		locks:   make(map[string]string),
	}
}

var _ repository.IdempotencyRepository = (*Idempotency)(nil)

func idemKey(userID, key string) string { return userID + ":" + key }

func (r *Idempotency) GetResult(_ context.Context, userID, key string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bs, ok := r.results[idemKey(userID, key)]
	return bs, ok
}

func (r *Idempotency) SaveResult(_ context.Context, userID, key string, data []byte, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[idemKey(userID, key)] = data
	return nil
}

func (r *Idempotency) Lock(_ context.Context, userID, key string, _ time.Duration) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := idemKey(userID, key)
	if _, held := r.locks[k]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	r.locks[k] = token
	return token, true, nil
}

func (r *Idempotency) Unlock(_ context.Context, userID, key, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := idemKey(userID, key)
	if r.locks[k] != token {
		return repository.ErrLockNotOwned
	}
	delete(r.locks, k)
	return nil
}

// Locked - удерживается ли блокировка ключа
func (r *Idempotency) Locked(userID, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.locks[idemKey(userID, key)]
	return held
}
