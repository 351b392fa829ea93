package email

import "time"

// Message is a fully rendered email ready for a Transport.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// TemplateKind names one of the fixed notification templates.
type TemplateKind string

const (
	KindAdminOTP               TemplateKind = "admin_otp"
	KindQueryAdminNotification TemplateKind = "query_admin_notification"
	KindQueryAcknowledgment    TemplateKind = "query_acknowledgment"
)

// AdminOTPData feeds the admin_otp template.
type AdminOTPData struct {
	Username     string `json:"username"`
	Code         string `json:"code"`
	ValidMinutes int    `json:"valid_minutes"`
}

// QueryData feeds both service-query templates.
type QueryData struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
