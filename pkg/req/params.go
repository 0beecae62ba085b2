package req

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// IdempotencyKeyHeader - повтор запроса с тем же ключом не применяется дважды
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// IdempotencyKey - значение заголовка Idempotency-Key, пустая строка если его нет
func IdempotencyKey(r *http.Request) (string, error) {
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		return "", errors.New("idempotency key is too long")
	}
	return key, nil
}

// Limit читает ?limit=, 0 если параметра нет
func Limit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	return limit, nil
}
