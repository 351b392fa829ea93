package query

import (
	"time"

	"portfolio-backend/internal/infrastructure/email"
)

// ServiceQuery is a contact request from a site visitor. Immutable once stored.
type ServiceQuery struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailData converts the record for the notification templates.
func (q *ServiceQuery) EmailData() email.QueryData {
	return email.QueryData{
		ID:        q.ID,
		Name:      q.Name,
		Email:     q.Email,
		Subject:   q.Subject,
		Message:   q.Message,
		CreatedAt: q.CreatedAt,
	}
}
