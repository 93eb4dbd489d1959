package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"backoffice-console/middleware"
	"backoffice-console/models"
	"backoffice-console/queries"
)

// show answers a read with its data.
func show[T any](c *Console, fetch func(r *http.Request, q *queries.Queries) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := middleware.WorkspaceFromContext(r.Context())
		data, err := fetch(r, ws.Queries)
		if err != nil {
			c.fail(w, r, err, nil)
			return
		}
		SendSuccessResponse(w, "", data)
	}
}

// listing answers a paginated read, adding the pagination bar.
func listing[T any](c *Console, fetch func(q *queries.Queries, ctx context.Context, p models.ListParams) (models.Page[T], error)) http.HandlerFunc {
	return show(c, func(r *http.Request, q *queries.Queries) (pageView[T], error) {
		p, err := listParams(r.URL.Query())
		if err != nil {
			return pageView[T]{}, err
		}
		page, err := fetch(q, r.Context(), p)
		if err != nil {
			return pageView[T]{}, err
		}
		return newPageView(page), nil
	})
}

// byID answers a read of one record addressed by the {id} path variable.
func byID[T any](c *Console, fetch func(q *queries.Queries, ctx context.Context, id int) (T, error)) http.HandlerFunc {
	return show(c, func(r *http.Request, q *queries.Queries) (T, error) {
		id, err := pathID(r)
		if err != nil {
			var zero T
			return zero, err
		}
		return fetch(q, r.Context(), id)
	})
}

func static[T any](c *Console, fetch func(q *queries.Queries, ctx context.Context) (T, error)) http.HandlerFunc {
	return show(c, func(r *http.Request, q *queries.Queries) (T, error) {
		return fetch(q, r.Context())
	})
}

func serviceKind(r *http.Request) models.ServiceKind {
	return models.ServiceKind(mux.Vars(r)["kind"])
}

func (c *Console) registerViews(api *mux.Router) {
	api.HandleFunc("/dashboard", static(c, (*queries.Queries).DashboardStats)).Methods(http.MethodGet)
	api.HandleFunc("/profile", static(c, (*queries.Queries).Profile)).Methods(http.MethodGet)

	api.HandleFunc("/users", listing(c, (*queries.Queries).Users)).Methods(http.MethodGet)
	api.HandleFunc("/users/stats", static(c, (*queries.Queries).UserStats)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", byID(c, (*queries.Queries).User)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/transactions", show(c, func(r *http.Request, q *queries.Queries) (pageView[models.Transaction], error) {
		id, err := pathID(r)
		if err != nil {
			return pageView[models.Transaction]{}, err
		}
		p, err := listParams(r.URL.Query())
		if err != nil {
			return pageView[models.Transaction]{}, err
		}
		page, err := q.UserTransactions(r.Context(), id, p)
		if err != nil {
			return pageView[models.Transaction]{}, err
		}
		return newPageView(page), nil
	})).Methods(http.MethodGet)

	api.HandleFunc("/transactions", listing(c, (*queries.Queries).Transactions)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/stats", show(c, func(r *http.Request, q *queries.Queries) (models.TransactionStats, error) {
		p, err := listParams(r.URL.Query())
		if err != nil {
			return models.TransactionStats{}, err
		}
		return q.TransactionStats(r.Context(), p)
	})).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", show(c, func(r *http.Request, q *queries.Queries) (models.Transaction, error) {
		return q.Transaction(r.Context(), mux.Vars(r)["id"])
	})).Methods(http.MethodGet)

	api.HandleFunc("/services/{kind}/transactions", show(c, func(r *http.Request, q *queries.Queries) (pageView[models.ServiceTransaction], error) {
		p, err := listParams(r.URL.Query())
		if err != nil {
			return pageView[models.ServiceTransaction]{}, err
		}
		page, err := q.ServiceTransactions(r.Context(), serviceKind(r), p)
		if err != nil {
			return pageView[models.ServiceTransaction]{}, err
		}
		return newPageView(page), nil
	})).Methods(http.MethodGet)
	api.HandleFunc("/services/{kind}/stats", show(c, func(r *http.Request, q *queries.Queries) (models.ServiceStats, error) {
		return q.ServiceStats(r.Context(), serviceKind(r))
	})).Methods(http.MethodGet)

	api.HandleFunc("/reference/networks", static(c, (*queries.Queries).Networks)).Methods(http.MethodGet)
	api.HandleFunc("/reference/data-plans", show(c, func(r *http.Request, q *queries.Queries) ([]models.DataPlan, error) {
		return q.DataPlans(r.Context(), r.URL.Query().Get("network"))
	})).Methods(http.MethodGet)
	api.HandleFunc("/reference/discos", static(c, (*queries.Queries).Discos)).Methods(http.MethodGet)
	api.HandleFunc("/reference/tv-providers", static(c, (*queries.Queries).TVProviders)).Methods(http.MethodGet)

	api.HandleFunc("/admins", listing(c, (*queries.Queries).Admins)).Methods(http.MethodGet)
	api.HandleFunc("/admins/stats", static(c, (*queries.Queries).AdminStats)).Methods(http.MethodGet)
	api.HandleFunc("/admins/{id:[0-9]+}", byID(c, (*queries.Queries).Admin)).Methods(http.MethodGet)
	api.HandleFunc("/roles", static(c, (*queries.Queries).Roles)).Methods(http.MethodGet)
	api.HandleFunc("/permissions", static(c, (*queries.Queries).Permissions)).Methods(http.MethodGet)

	api.HandleFunc("/newsletters", listing(c, (*queries.Queries).Newsletters)).Methods(http.MethodGet)
	api.HandleFunc("/newsletters/{id:[0-9]+}", byID(c, (*queries.Queries).Newsletter)).Methods(http.MethodGet)

	api.HandleFunc("/notifications", listing(c, (*queries.Queries).Notifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", static(c, (*queries.Queries).UnreadCount)).Methods(http.MethodGet)
}
