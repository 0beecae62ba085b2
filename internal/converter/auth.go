package converter

import (
	dto "github.com/gudubets/gudubet-sub002/internal/api/dto/auth"
	"github.com/gudubets/gudubet-sub002/internal/model"
)

func RegisterRequestToUserModel(req *dto.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}

func ToAuthResponse(data *model.AuthData) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		SessionID:    data.SessionID,
	}
}
