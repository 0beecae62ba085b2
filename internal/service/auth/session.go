package auth

import (
	"context"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/pkg/token"
)

// openSession создаёт сессию авторизации и выпускает пару токенов
func (s *serv) openSession(ctx context.Context, user *model.User) (*model.AuthData, error) {
	sessionID := generateSessionID()

	refreshToken, err := token.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	// В хранилище только хэш refresh токена
	err = s.authRepo.CreateSession(ctx, &model.Session{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: token.HashRefreshToken(refreshToken),
		ExpiresAt:    time.Now().Add(s.jwtConfig.RefreshTokenDuration()),
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := token.GenerateAccessToken(user, s.jwtConfig.AccessTokenSecretKey(), s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}
