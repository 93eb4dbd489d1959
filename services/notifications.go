package services

import (
	"context"
	"net/http"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const notificationsPath = "/admin/notifications"

func ListNotifications(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.Notification]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.Notification]]{}, err
	}
	return list[models.Notification](ctx, c, notificationsPath, p)
}

func UnreadCount(ctx context.Context, c Client) (models.Envelope[models.UnreadCount], error) {
	return get[models.UnreadCount](ctx, c, notificationsPath+"/unread-count", nil)
}

func MarkNotificationRead(ctx context.Context, c Client, id string) (models.Ack, error) {
	if id == "" {
		return models.Ack{}, &utils.ValidationError{Fields: map[string]string{"ID": "is required"}}
	}
	return ack(ctx, c, http.MethodPatch, resource(notificationsPath, id)+"/read", nil)
}

func MarkAllNotificationsRead(ctx context.Context, c Client) (models.Ack, error) {
	return ack(ctx, c, http.MethodPatch, notificationsPath+"/read-all", nil)
}
