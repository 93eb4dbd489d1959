package models

import (
	"encoding/json"
	"time"
)

type Notification struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	ReadAt    *time.Time      `json:"read_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsUnread reports whether the notification has no read timestamp yet.
func (n Notification) IsUnread() bool {
	return n.ReadAt == nil
}

type UnreadCount struct {
	Count int `json:"count"`
}
