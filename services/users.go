package services

import (
	"context"
	"net/http"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const usersPath = "/admin/user-management"

func ListUsers(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.User]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.User]]{}, err
	}
	return list[models.User](ctx, c, usersPath, p)
}

func GetUser(ctx context.Context, c Client, id int) (models.Envelope[models.User], error) {
	return get[models.User](ctx, c, resource(usersPath, id), nil)
}

func UserStats(ctx context.Context, c Client) (models.Envelope[models.UserStats], error) {
	return get[models.UserStats](ctx, c, usersPath+"/stats", nil)
}

// UserTransactions lists the transactions of one user.
func UserTransactions(ctx context.Context, c Client, id int, p models.ListParams) (models.Envelope[models.Page[models.Transaction]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.Transaction]]{}, err
	}
	return list[models.Transaction](ctx, c, resource(usersPath, id)+"/transactions", p)
}

func CreateUser(ctx context.Context, c Client, req models.CreateUserRequest) (models.Envelope[models.User], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.User]{}, err
	}
	return sendForm[models.User](ctx, c, http.MethodPost, usersPath, req.Form())
}

// UpdateUser posts a multipart form with a method override, since the backend
// only parses multipart bodies on POST.
func UpdateUser(ctx context.Context, c Client, req models.UpdateUserRequest) (models.Envelope[models.User], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.User]{}, err
	}
	form := req.Form()
	form.Set(methodOverride, http.MethodPut)
	return sendForm[models.User](ctx, c, http.MethodPost, resource(usersPath, req.ID), form)
}

func UpdateUserStatus(ctx context.Context, c Client, req models.UpdateUserStatusRequest) (models.Envelope[models.User], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.User]{}, err
	}
	return send[models.User](ctx, c, http.MethodPatch, resource(usersPath, req.ID)+"/status", req)
}

func DeleteUser(ctx context.Context, c Client, id int) (models.Ack, error) {
	return ack(ctx, c, http.MethodDelete, resource(usersPath, id), nil)
}
