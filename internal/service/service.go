package service

import (
	"context"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type SpinService interface {
	Spin(ctx context.Context, req model.SpinRequest) (*model.SpinResponse, error)
	History(ctx context.Context, userID string, limit int) ([]model.SpinRecord, error)
	Session(ctx context.Context, userID, sessionID string) (*model.GameSession, error)
}

type WalletService interface {
	Balance(ctx context.Context, userID string) (*model.Wallet, error)
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, idemKey string) (*model.Wallet, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, idemKey string) (*model.Wallet, error)
	ClaimWelcomeBonus(ctx context.Context, userID string) (*model.Wallet, error)
	Transactions(ctx context.Context, userID string, limit int) ([]model.LedgerEntry, error)
}

type GameService interface {
	List(ctx context.Context) ([]model.GameConfig, error)
	RTP(ctx context.Context, slug string) (model.RTPSnapshot, error)
	Seed(ctx context.Context, games []model.GameConfig) error
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}

// EventTracker - неблокирующая отправка аналитики
type EventTracker interface {
	Track(event model.Event) bool
}
