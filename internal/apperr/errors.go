// Package apperr содержит доменные ошибки и их отображение в HTTP статусы.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidBet          = errors.New("invalid bet amount")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginTaken         = errors.New("login already taken")

	ErrGameNotFound    = errors.New("game not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSpinNotFound    = errors.New("spin not found")

	ErrDuplicateInFlight    = errors.New("request with this idempotency key is already in progress")
	ErrDuplicateSpin        = errors.New("spin with this idempotency key already recorded")
	ErrIdempotencyKeyReused = errors.New("idempotency key was already used for a different request")
	ErrBonusAlreadyGranted  = errors.New("bonus already granted")

	// ErrBalanceConflict - версия кошелька изменилась между чтением и записью
	ErrBalanceConflict = errors.New("balance was modified concurrently")

	ErrPersistence    = errors.New("could not record the spin, please try again")
	ErrOutcomeUnknown = errors.New("spin outcome unknown, retry with the same idempotency key")
	ErrInternal       = errors.New("internal error")
)

// HTTPStatus возвращает статус и безопасное для клиента сообщение
func HTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidBet),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInsufficientBalance):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSpinNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrDuplicateInFlight),
		errors.Is(err, ErrIdempotencyKeyReused),
		errors.Is(err, ErrLoginTaken),
		errors.Is(err, ErrBonusAlreadyGranted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrOutcomeUnknown):
		return http.StatusServiceUnavailable, ErrOutcomeUnknown.Error()
	case errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError, ErrPersistence.Error()
	default:
		return http.StatusInternalServerError, ErrInternal.Error()
	}
}

// IsDomain - ошибка бизнес-правила, а не инфраструктуры
func IsDomain(err error) bool {
	status, _ := HTTPStatus(err)
	return status != http.StatusInternalServerError && status != http.StatusServiceUnavailable
}
