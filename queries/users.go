package queries

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
)

var userWrites = []string{NSUsers, NSUser, NSUserStats, NSDashboardStats}

func (q *Queries) Users(ctx context.Context, p models.ListParams) (models.Page[models.User], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSUsers, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.User]], error) {
			return services.ListUsers(ctx, c, p)
		})
}

func (q *Queries) User(ctx context.Context, id int) (models.User, error) {
	return read(ctx, q, query.NewKey(NSUser, id), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.User], error) {
			return services.GetUser(ctx, c, id)
		})
}

func (q *Queries) UserStats(ctx context.Context) (models.UserStats, error) {
	return read(ctx, q, query.NewKey(NSUserStats), q.stale.Stats, services.UserStats)
}

func (q *Queries) UserTransactions(ctx context.Context, id int, p models.ListParams) (models.Page[models.Transaction], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSUserTransactions, id, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.Transaction]], error) {
			return services.UserTransactions(ctx, c, id, p)
		})
}

func (q *Queries) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.Envelope[models.User], error) {
	return write(ctx, q, "create user", req, services.CreateUser, userWrites...)
}

func (q *Queries) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (models.Envelope[models.User], error) {
	return write(ctx, q, "update user", req, services.UpdateUser, userWrites...)
}

func (q *Queries) UpdateUserStatus(ctx context.Context, req models.UpdateUserStatusRequest) (models.Envelope[models.User], error) {
	return write(ctx, q, "update user status", req, services.UpdateUserStatus, userWrites...)
}

func (q *Queries) DeleteUser(ctx context.Context, id int) (models.Ack, error) {
	return write(ctx, q, "delete user", id, services.DeleteUser, append(userWrites, NSUserTransactions)...)
}
