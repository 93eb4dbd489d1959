package queries

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
)

var notificationWrites = []string{NSNotifications, NSUnread}

func (q *Queries) Notifications(ctx context.Context, p models.ListParams) (models.Page[models.Notification], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSNotifications, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.Notification]], error) {
			return services.ListNotifications(ctx, c, p)
		})
}

// UnreadCount has the shortest stale time; the revalidator also refreshes it
// on a fixed interval.
func (q *Queries) UnreadCount(ctx context.Context) (int, error) {
	uc, err := read(ctx, q, query.NewKey(NSUnread), q.stale.Unread, services.UnreadCount)
	return uc.Count, err
}

// RefreshUnreadCount forces a refetch of the unread count.
func (q *Queries) RefreshUnreadCount(ctx context.Context) (int, error) {
	q.cache.Invalidate(NSUnread)
	return q.UnreadCount(ctx)
}

func (q *Queries) MarkNotificationRead(ctx context.Context, id string) (models.Ack, error) {
	return write(ctx, q, "mark notification read", id, services.MarkNotificationRead, notificationWrites...)
}

func (q *Queries) MarkAllNotificationsRead(ctx context.Context) (models.Ack, error) {
	return write(ctx, q, "mark all notifications read", struct{}{},
		func(ctx context.Context, c services.Client, _ struct{}) (models.Ack, error) {
			return services.MarkAllNotificationsRead(ctx, c)
		}, notificationWrites...)
}
