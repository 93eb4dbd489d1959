package services

import (
	"context"
	"net/http"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const adminsPath = "/admin/admin-management"

func ListAdmins(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.Admin]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.Admin]]{}, err
	}
	return list[models.Admin](ctx, c, adminsPath, p)
}

func GetAdmin(ctx context.Context, c Client, id int) (models.Envelope[models.Admin], error) {
	return get[models.Admin](ctx, c, resource(adminsPath, id), nil)
}

func AdminStats(ctx context.Context, c Client) (models.Envelope[models.AdminStats], error) {
	return get[models.AdminStats](ctx, c, adminsPath+"/stats", nil)
}

func CreateAdmin(ctx context.Context, c Client, req models.CreateAdminRequest) (models.Envelope[models.Admin], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Admin]{}, err
	}
	return sendForm[models.Admin](ctx, c, http.MethodPost, adminsPath, req.Form())
}

func UpdateAdmin(ctx context.Context, c Client, req models.UpdateAdminRequest) (models.Envelope[models.Admin], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Admin]{}, err
	}
	form := req.Form()
	form.Set(methodOverride, http.MethodPut)
	return sendForm[models.Admin](ctx, c, http.MethodPost, resource(adminsPath, req.ID), form)
}

func DeleteAdmin(ctx context.Context, c Client, id int) (models.Ack, error) {
	return ack(ctx, c, http.MethodDelete, resource(adminsPath, id), nil)
}

// ToggleAdminStatus flips an admin between active and inactive.
func ToggleAdminStatus(ctx context.Context, c Client, id int) (models.Envelope[models.Admin], error) {
	return send[models.Admin](ctx, c, http.MethodPatch, resource(adminsPath, id)+"/toggle-status", nil)
}
