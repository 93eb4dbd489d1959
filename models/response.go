package models

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wrapper every backend response uses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// PageLink is one entry of the backend's pagination links array.
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page mirrors the backend pagination envelope nested inside Envelope.Data.
type Page[T any] struct {
	CurrentPage  int        `json:"current_page"`
	Data         []T        `json:"data"`
	FirstPageURL string     `json:"first_page_url,omitempty"`
	From         *int       `json:"from"`
	LastPage     int        `json:"last_page"`
	LastPageURL  string     `json:"last_page_url,omitempty"`
	Links        []PageLink `json:"links"`
	NextPageURL  *string    `json:"next_page_url"`
	Path         string     `json:"path,omitempty"`
	PerPage      int        `json:"per_page"`
	PrevPageURL  *string    `json:"prev_page_url"`
	To           *int       `json:"to"`
	Total        int        `json:"total"`
}

func (p Page[T]) HasNext() bool {
	return p.NextPageURL != nil && *p.NextPageURL != ""
}

func (p Page[T]) HasPrev() bool {
	return p.PrevPageURL != nil && *p.PrevPageURL != ""
}

// Validate checks the envelope bounds: the slice never exceeds per_page and
// from/to stay inside total.
func (p Page[T]) Validate() error {
	if p.PerPage > 0 && len(p.Data) > p.PerPage {
		return fmt.Errorf("page holds %d items, per_page is %d", len(p.Data), p.PerPage)
	}
	if p.From == nil || p.To == nil {
		if len(p.Data) > 0 {
			return fmt.Errorf("page holds %d items without from/to bounds", len(p.Data))
		}
		return nil
	}
	from, to := *p.From, *p.To
	if from < 1 || from > to {
		return fmt.Errorf("invalid page bounds %d..%d", from, to)
	}
	if to > p.Total {
		return fmt.Errorf("page bound %d exceeds total %d", to, p.Total)
	}
	if to-from+1 != len(p.Data) {
		return fmt.Errorf("page bounds %d..%d do not match %d items", from, to, len(p.Data))
	}
	return nil
}

// Ack is the envelope of writes whose data the caller does not use.
type Ack = Envelope[json.RawMessage]
