package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/pkg/pass"
)

const minPasswordLen = 6

// Register создаёт пользователя с нулевыми балансами и открывает сессию.
// Пользователь и сессия пишутся в одной транзакции
func (s *serv) Register(ctx context.Context, user *model.User) (*model.AuthData, error) {
	user.Login = strings.TrimSpace(user.Login)
	if user.Login == "" || len(user.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: login is required and password must be at least %d characters", apperr.ErrInvalidRequest, minPasswordLen)
	}
	if user.Name == "" {
		user.Name = user.Login
	}

	passwordHash, err := pass.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = passwordHash

	var data *model.AuthData
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		id, err := s.userRepo.CreateUser(ctx, user)
		if err != nil {
			return err
		}
		user.ID = id

		data, err = s.openSession(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}
