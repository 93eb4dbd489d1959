package services

import (
	"context"
	"net/http"

	"backoffice-console/api"
	"backoffice-console/models"
	"backoffice-console/utils"
)

const authPath = "/admin"

func Login(ctx context.Context, c Client, req models.LoginRequest) (models.Envelope[models.LoginResponse], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.LoginResponse]{}, err
	}
	return send[models.LoginResponse](api.WithoutToken(ctx), c, http.MethodPost, authPath+"/login", req)
}

func Logout(ctx context.Context, c Client) (models.Ack, error) {
	return ack(ctx, c, http.MethodPost, authPath+"/logout", nil)
}

// Profile returns the signed-in admin.
func Profile(ctx context.Context, c Client) (models.Envelope[models.Admin], error) {
	return get[models.Admin](ctx, c, authPath+"/profile", nil)
}

func ChangePassword(ctx context.Context, c Client, req models.ChangePasswordRequest) (models.Ack, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Ack{}, err
	}
	return ack(ctx, c, http.MethodPost, authPath+"/change-password", req)
}
