package models

import (
	"net/url"
	"sort"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListParams is the parameter set of every paginated read. It doubles as the
// cache-key payload, so two reads with equal params share one cache entry.
type ListParams struct {
	Page    int               `json:"page" validate:"gte=1"`
	PerPage int               `json:"per_page" validate:"gte=1,lte=100"`
	Search  string            `json:"search,omitempty" validate:"max=255"`
	Status  string            `json:"status,omitempty" validate:"max=50"`
	From    string            `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To      string            `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Filters map[string]string `json:"filters,omitempty" validate:"dive,keys,ne=page,ne=per_page,ne=search,ne=status,ne=start_date,ne=end_date,endkeys"`
}

// Normalized fills in defaults so that zero values and explicit defaults land
// on the same cache entry.
func (p ListParams) Normalized() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if len(p.Filters) == 0 {
		p.Filters = nil
	}
	return p
}

func (p ListParams) WithPage(page int) ListParams {
	p.Page = page
	return p
}

// Query renders the params as the backend's query string. Empty values are
// omitted.
func (p ListParams) Query() url.Values {
	p = p.Normalized()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.From != "" {
		q.Set("start_date", p.From)
	}
	if p.To != "" {
		q.Set("end_date", p.To)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := p.Filters[k]; v != "" {
			q.Set(k, v)
		}
	}
	return q
}
