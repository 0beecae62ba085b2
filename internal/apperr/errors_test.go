package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid bet", fmt.Errorf("%w: below minimum", ErrInvalidBet), http.StatusBadRequest, "invalid bet amount: below minimum"},
		{"insufficient", ErrInsufficientBalance, http.StatusBadRequest, "insufficient balance"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"game", fmt.Errorf("load: %w", ErrGameNotFound), http.StatusNotFound, "load: game not found"},
		{"user", ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"in flight", ErrDuplicateInFlight, http.StatusConflict, ErrDuplicateInFlight.Error()},
		{"key reused", ErrIdempotencyKeyReused, http.StatusConflict, ErrIdempotencyKeyReused.Error()},
		{"unknown", ErrOutcomeUnknown, http.StatusServiceUnavailable, ErrOutcomeUnknown.Error()},
		{"persistence wrapped", fmt.Errorf("insert spin: %w", ErrPersistence), http.StatusInternalServerError, ErrPersistence.Error()},
		{"driver error hidden", errors.New("pq: connection refused to 10.0.0.1"), http.StatusInternalServerError, ErrInternal.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := HTTPStatus(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestIsDomain(t *testing.T) {
	if !IsDomain(ErrInsufficientBalance) {
		t.Error("insufficient balance should be a domain error")
	}
	if !IsDomain(fmt.Errorf("wrap: %w", ErrSessionNotFound)) {
		t.Error("wrapped session not found should be a domain error")
	}
	if IsDomain(context.DeadlineExceeded) {
		t.Error("deadline must not be a domain error")
	}
	if IsDomain(ErrOutcomeUnknown) {
		t.Error("outcome unknown must not be a domain error")
	}
}
