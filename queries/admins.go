package queries

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
)

// The signed-in admin may be the one being changed, so profile goes too.
var (
	adminWrites = []string{NSAdmins, NSAdmin, NSAdminStats, NSProfile}
	roleWrites  = []string{NSRoles, NSAdmins, NSAdmin, NSAdminStats, NSProfile}
)

func (q *Queries) Admins(ctx context.Context, p models.ListParams) (models.Page[models.Admin], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSAdmins, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.Admin]], error) {
			return services.ListAdmins(ctx, c, p)
		})
}

func (q *Queries) Admin(ctx context.Context, id int) (models.Admin, error) {
	return read(ctx, q, query.NewKey(NSAdmin, id), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Admin], error) {
			return services.GetAdmin(ctx, c, id)
		})
}

func (q *Queries) AdminStats(ctx context.Context) (models.AdminStats, error) {
	return read(ctx, q, query.NewKey(NSAdminStats), q.stale.Stats, services.AdminStats)
}

func (q *Queries) CreateAdmin(ctx context.Context, req models.CreateAdminRequest) (models.Envelope[models.Admin], error) {
	return write(ctx, q, "create admin", req, services.CreateAdmin, adminWrites...)
}

func (q *Queries) UpdateAdmin(ctx context.Context, req models.UpdateAdminRequest) (models.Envelope[models.Admin], error) {
	return write(ctx, q, "update admin", req, services.UpdateAdmin, adminWrites...)
}

func (q *Queries) DeleteAdmin(ctx context.Context, id int) (models.Ack, error) {
	return write(ctx, q, "delete admin", id, services.DeleteAdmin, adminWrites...)
}

func (q *Queries) ToggleAdminStatus(ctx context.Context, id int) (models.Envelope[models.Admin], error) {
	return write(ctx, q, "toggle admin status", id, services.ToggleAdminStatus, adminWrites...)
}

func (q *Queries) Roles(ctx context.Context) ([]models.Role, error) {
	return read(ctx, q, query.NewKey(NSRoles), q.stale.Default, services.ListRoles)
}

func (q *Queries) Permissions(ctx context.Context) ([]models.PermissionGroup, error) {
	return read(ctx, q, query.NewKey(NSPermissions), q.stale.Reference, services.ListPermissions)
}

func (q *Queries) CreateRole(ctx context.Context, req models.RoleRequest) (models.Envelope[models.Role], error) {
	return write(ctx, q, "create role", req, services.CreateRole, roleWrites...)
}

func (q *Queries) UpdateRole(ctx context.Context, req models.RoleRequest) (models.Envelope[models.Role], error) {
	return write(ctx, q, "update role", req, services.UpdateRole, roleWrites...)
}

func (q *Queries) DeleteRole(ctx context.Context, id int) (models.Ack, error) {
	return write(ctx, q, "delete role", id, services.DeleteRole, roleWrites...)
}
