package services

import (
	"context"
	"net/http"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const newslettersPath = "/admin/newsletters"

func ListNewsletters(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.Newsletter]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.Newsletter]]{}, err
	}
	return list[models.Newsletter](ctx, c, newslettersPath, p)
}

func GetNewsletter(ctx context.Context, c Client, id int) (models.Envelope[models.Newsletter], error) {
	return get[models.Newsletter](ctx, c, resource(newslettersPath, id), nil)
}

func CreateNewsletter(ctx context.Context, c Client, req models.NewsletterRequest) (models.Envelope[models.Newsletter], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Newsletter]{}, err
	}
	return sendForm[models.Newsletter](ctx, c, http.MethodPost, newslettersPath, req.Form())
}

func UpdateNewsletter(ctx context.Context, c Client, req models.NewsletterRequest) (models.Envelope[models.Newsletter], error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Envelope[models.Newsletter]{}, err
	}
	if req.ID <= 0 {
		return models.Envelope[models.Newsletter]{}, &utils.ValidationError{Fields: map[string]string{"ID": "is required"}}
	}
	form := req.Form()
	form.Set(methodOverride, http.MethodPut)
	return sendForm[models.Newsletter](ctx, c, http.MethodPost, resource(newslettersPath, req.ID), form)
}

func DeleteNewsletter(ctx context.Context, c Client, id int) (models.Ack, error) {
	return ack(ctx, c, http.MethodDelete, resource(newslettersPath, id), nil)
}
