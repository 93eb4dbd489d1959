package models

import "time"

type NewsletterMedium string

const (
	MediumEmail NewsletterMedium = "email"
	MediumSMS   NewsletterMedium = "sms"
	MediumPush  NewsletterMedium = "push_notification"
)

type Newsletter struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Medium        NewsletterMedium `json:"medium"`
	Content       string           `json:"content"`
	Image         *string          `json:"image"`
	ScheduledDate *string          `json:"scheduled_date"`
	ScheduledTime *string          `json:"scheduled_time"`
	IsActive      bool             `json:"is_active"`
	SentAt        *time.Time       `json:"sent_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type NewsletterRequest struct {
	ID            int              `validate:"omitempty,gt=0"`
	Title         string           `validate:"required,max=255"`
	Medium        NewsletterMedium `validate:"required,oneof=email sms push_notification"`
	Content       string           `validate:"required"`
	ScheduledDate string           `validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime string           `validate:"omitempty,datetime=15:04"`
	IsActive      bool
	Image         *Upload
}

func (r NewsletterRequest) Form() Form {
	f := NewForm()
	f.Set("title", r.Title)
	f.Set("medium", string(r.Medium))
	f.Set("content", r.Content)
	f.SetIfNotEmpty("scheduled_date", r.ScheduledDate)
	f.SetIfNotEmpty("scheduled_time", r.ScheduledTime)
	f.SetBool("is_active", r.IsActive)
	f.Attach("image", r.Image)
	return f
}
