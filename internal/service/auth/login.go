package auth

import (
	"context"
	"errors"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/pkg/pass"
)

// Login - неизвестный логин и неверный пароль неразличимы для клиента
func (s *serv) Login(ctx context.Context, login, password string) (*model.AuthData, error) {
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pass.VerifyPassword(user.Password, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}
