package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"backoffice-console/models"
	"backoffice-console/utils"
)

var reservedParams = map[string]bool{
	"page": true, "per_page": true, "search": true, "status": true, "from": true, "to": true,
}

// listParams reads paging and filters from the query string. Unknown keys are
// passed to the backend as filters.
func listParams(q url.Values) (models.ListParams, error) {
	p := models.ListParams{
		Search: q.Get("search"),
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	var err error
	if p.Page, err = optionalInt(q, "page"); err != nil {
		return p, err
	}
	if p.PerPage, err = optionalInt(q, "per_page"); err != nil {
		return p, err
	}
	for key, values := range q {
		if reservedParams[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		if p.Filters == nil {
			p.Filters = map[string]string{}
		}
		p.Filters[key] = values[0]
	}
	return p.Normalized(), nil
}

func optionalInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &utils.ValidationError{Fields: map[string]string{key: "must be a positive number"}}
	}
	return n, nil
}

func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &utils.ValidationError{Fields: map[string]string{"id": fmt.Sprintf("invalid id %q", raw)}}
	}
	return id, nil
}

// pageView is a page of rows plus the page numbers of its pagination bar.
type pageView[T any] struct {
	models.Page[T]
	Window []int `json:"window"`
}

func newPageView[T any](p models.Page[T]) pageView[T] {
	return pageView[T]{Page: p, Window: utils.PageWindow(p.CurrentPage, p.LastPage, 1)}
}
