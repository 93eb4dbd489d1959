package services

import (
	"context"
	"net/http"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const rolesPath = "/admin/roles"

func ListRoles(ctx context.Context, c Client) (models.Envelope[[]models.Role], error) {
	return get[[]models.Role](ctx, c, rolesPath, nil)
}

// ListPermissions returns the permission catalogue grouped by module.
func ListPermissions(ctx context.Context, c Client) (models.Envelope[[]models.PermissionGroup], error) {
	return get[[]models.PermissionGroup](ctx, c, rolesPath+"/permissions", nil)
}

func CreateRole(ctx context.Context, c Client, req models.RoleRequest) (models.Envelope[models.Role], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Role]{}, err
	}
	return send[models.Role](ctx, c, http.MethodPost, rolesPath, req)
}

func UpdateRole(ctx context.Context, c Client, req models.RoleRequest) (models.Envelope[models.Role], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Role]{}, err
	}
	if req.ID <= 0 {
		return models.Envelope[models.Role]{}, &utils.ValidationError{Fields: map[string]string{"ID": "is required"}}
	}
	return send[models.Role](ctx, c, http.MethodPut, resource(rolesPath, req.ID), req)
}

func DeleteRole(ctx context.Context, c Client, id int) (models.Ack, error) {
	return ack(ctx, c, http.MethodDelete, resource(rolesPath, id), nil)
}
