// Package services maps every admin endpoint of the backend to one typed
// function. Each function validates its input, issues exactly one HTTP call
// and returns the decoded envelope. Nothing here caches.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"backoffice-console/models"
)

// Client is the subset of api.Client the services use.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Send(ctx context.Context, method, path string, body, out any) error
	SendForm(ctx context.Context, method, path string, form models.Form, out any) error
}

const methodOverride = "_method"

func get[T any](ctx context.Context, c Client, path string, query url.Values) (models.Envelope[T], error) {
	var env models.Envelope[T]
	if err := c.Get(ctx, path, query, &env); err != nil {
		return env, err
	}
	return env, nil
}

func send[T any](ctx context.Context, c Client, method, path string, body any) (models.Envelope[T], error) {
	var env models.Envelope[T]
	if err := c.Send(ctx, method, path, body, &env); err != nil {
		return env, err
	}
	return env, nil
}

func ack(ctx context.Context, c Client, method, path string, body any) (models.Ack, error) {
	return send[json.RawMessage](ctx, c, method, path, body)
}

func sendForm[T any](ctx context.Context, c Client, method, path string, form models.Form) (models.Envelope[T], error) {
	var env models.Envelope[T]
	if err := c.SendForm(ctx, method, path, form, &env); err != nil {
		return env, err
	}
	return env, nil
}

// list fetches one page of a paginated resource and checks the envelope's
// own bookkeeping before handing it out.
func list[T any](ctx context.Context, c Client, path string, p models.ListParams) (models.Envelope[models.Page[T]], error) {
	env, err := get[models.Page[T]](ctx, c, path, p.Query())
	if err != nil {
		return env, err
	}
	if err := env.Data.Validate(); err != nil {
		return env, fmt.Errorf("invalid page from %s: %w", path, err)
	}
	return env, nil
}

func resource(base string, id any) string {
	return fmt.Sprintf("%s/%v", base, id)
}
