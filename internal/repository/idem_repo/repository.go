package idem_repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	prefixResult = "spin:idem:result:"
	prefixLock   = "spin:idem:lock:"
)

// unlockScript - удаляет ключ, только если значение совпадает с токеном владельца
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

type repo struct {
	rdb redis.UniversalClient
}

func NewIdempotencyRepository(rdb redis.UniversalClient) repository.IdempotencyRepository {
	return &repo{rdb: rdb}
}

// ResultKey - spin:idem:result:{user}:{key}
func ResultKey(userID, key string) string { return prefixResult + userID + ":" + key }

// LockKey - spin:idem:lock:{user}:{key}
func LockKey(userID, key string) string { return prefixLock + userID + ":" + key }

// GetResult - закэшированный ответ. Ошибки Redis считаются промахом
func (r *repo) GetResult(ctx context.Context, userID, key string) ([]byte, bool) {
	bs, err := r.rdb.Get(ctx, ResultKey(userID, key)).Bytes()
	if err != nil || len(bs) == 0 {
		return nil, false
	}
	return bs, true
}

func (r *repo) SaveResult(ctx context.Context, userID, key string, data []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, ResultKey(userID, key), data, ttl).Err()
}

// Lock - SETNX с уникальным токеном
func (r *repo) Lock(ctx context.Context, userID, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, LockKey(userID, key), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock - атомарно снимает блокировку своим токеном
func (r *repo) Unlock(ctx context.Context, userID, key, token string) error {
	res, err := unlockScript.Run(ctx, r.rdb, []string{LockKey(userID, key)}, token).Int64()
	if err != nil {
		return err
	}
	if res == 0 {
		return repository.ErrLockNotOwned
	}
	return nil
}
