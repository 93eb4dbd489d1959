package services

import (
	"context"

	"backoffice-console/models"
)

func DashboardStats(ctx context.Context, c Client) (models.Envelope[models.DashboardStats], error) {
	return get[models.DashboardStats](ctx, c, "/admin/dashboard/stats", nil)
}
