package queries

import (
	"context"
	"fmt"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
	"backoffice-console/session"
)

// Login exchanges credentials for a token and stores the new session. Whatever
// was cached for a previous session is dropped.
func (q *Queries) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	env, err := services.Login(ctx, q.client, req)
	if err != nil {
		return models.LoginResponse{}, err
	}
	if env.Data.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("login response carried no token")
	}

	s := session.New(env.Data.Token, env.Data.Admin.FullName(), env.Data.Admin.Email, env.Data.ExpiresAt)
	if err := q.session.Set(ctx, s); err != nil {
		return models.LoginResponse{}, fmt.Errorf("failed to store session: %w", err)
	}
	q.cache.Clear()
	query.Set(q.cache, query.NewKey(NSProfile), env.Data.Admin)
	q.log.WithField("admin", env.Data.Admin.Email).Info("signed in")
	return env.Data, nil
}

// Logout tells the backend to revoke the token, then clears the session and
// the whole cache. The local state is cleared even when the backend call
// fails.
func (q *Queries) Logout(ctx context.Context) error {
	_, err := services.Logout(ctx, q.client)
	if clearErr := q.session.Clear(ctx); clearErr != nil {
		q.log.WithError(clearErr).Error("failed to clear session")
	}
	q.cache.Clear()
	if err != nil {
		q.log.WithError(err).Warn("backend logout failed")
	}
	return err
}

func (q *Queries) Profile(ctx context.Context) (models.Admin, error) {
	return read(ctx, q, query.NewKey(NSProfile), q.stale.Default, services.Profile)
}

// Allowed reports whether the signed-in admin holds a permission tag. A cached
// profile is used even when stale, so the check costs no request right after
// login.
func (q *Queries) Allowed(ctx context.Context, tag string) (bool, error) {
	admin, ok := query.Peek[models.Admin](q.cache, query.NewKey(NSProfile))
	if !ok {
		var err error
		if admin, err = q.Profile(ctx); err != nil {
			return false, err
		}
	}
	return admin.Can(tag), nil
}

func (q *Queries) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (models.Ack, error) {
	return write(ctx, q, "change password", req, services.ChangePassword)
}

func (q *Queries) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	return read(ctx, q, query.NewKey(NSDashboardStats), q.stale.Stats, services.DashboardStats)
}
