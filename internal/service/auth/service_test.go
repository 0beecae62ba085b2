package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository/memrepo"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/pkg/token"
)

type jwtCfg struct{}

func (jwtCfg) AccessTokenSecretKey() []byte        { return []byte("secret") }
func (jwtCfg) AccessTokenDuration() time.Duration  { return time.Minute }
func (jwtCfg) RefreshTokenDuration() time.Duration { return time.Hour }

func newService() (service.AuthService, *memrepo.Store) {
	store := memrepo.New()
	return NewAuthService(store.TxManager(), store.Users(), store.Auth(), jwtCfg{}), store
}

func TestRegisterAndLogin(t *testing.T) {
	s, store := newService()
	ctx := context.Background()

	data, err := s.Register(ctx, &model.User{Login: " player ", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	claims, err := token.VerifyToken(data.AccessToken, jwtCfg{}.AccessTokenSecretKey())
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	// Новый кошелёк пустой
	w := store.WalletOf(claims.Subject)
	if !w.Total().IsZero() {
		t.Fatalf("new wallet = %+v", w)
	}

	login, err := s.Login(ctx, "player", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.SessionID == data.SessionID || login.RefreshToken == "" {
		t.Fatalf("login must open a new session: %+v", login)
	}
}

func TestRegisterRejects(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	if _, err := s.Register(ctx, &model.User{Login: "p", Password: "123"}); !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Fatalf("short password: err = %v", err)
	}
	if _, err := s.Register(ctx, &model.User{Login: "p", Password: "123456"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Register(ctx, &model.User{Login: "p", Password: "654321"}); !errors.Is(err, apperr.ErrLoginTaken) {
		t.Fatalf("duplicate login: err = %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()
	if _, err := s.Register(ctx, &model.User{Login: "player", Password: "hunter22"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", "player", "hunter23"},
		{"unknown login", "ghost", "hunter22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.login, tt.password)
			if !errors.Is(err, apperr.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	data, err := s.Register(ctx, &model.User{Login: "player", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	access, err := s.Refresh(ctx, data)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := token.VerifyToken(access, jwtCfg{}.AccessTokenSecretKey()); err != nil {
		t.Fatalf("refreshed token: %v", err)
	}

	forged := *data
	forged.RefreshToken = "forged"
	if _, err := s.Refresh(ctx, &forged); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("forged refresh: err = %v", err)
	}

	if err := s.Logout(ctx, data.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Refresh(ctx, data); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("refresh after logout: err = %v", err)
	}
}
