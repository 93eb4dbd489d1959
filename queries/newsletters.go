package queries

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
)

var newsletterWrites = []string{NSNewsletters, NSNewsletter}

func (q *Queries) Newsletters(ctx context.Context, p models.ListParams) (models.Page[models.Newsletter], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSNewsletters, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.Newsletter]], error) {
			return services.ListNewsletters(ctx, c, p)
		})
}

func (q *Queries) Newsletter(ctx context.Context, id int) (models.Newsletter, error) {
	return read(ctx, q, query.NewKey(NSNewsletter, id), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Newsletter], error) {
			return services.GetNewsletter(ctx, c, id)
		})
}

func (q *Queries) CreateNewsletter(ctx context.Context, req models.NewsletterRequest) (models.Envelope[models.Newsletter], error) {
	return write(ctx, q, "create newsletter", req, services.CreateNewsletter, newsletterWrites...)
}

func (q *Queries) UpdateNewsletter(ctx context.Context, req models.NewsletterRequest) (models.Envelope[models.Newsletter], error) {
	return write(ctx, q, "update newsletter", req, services.UpdateNewsletter, newsletterWrites...)
}

func (q *Queries) DeleteNewsletter(ctx context.Context, id int) (models.Ack, error) {
	return write(ctx, q, "delete newsletter", id, services.DeleteNewsletter, newsletterWrites...)
}
