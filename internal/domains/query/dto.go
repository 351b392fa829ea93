package query

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SubmitQueryRequest is the public contact form payload.
type SubmitQueryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r SubmitQueryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, validation.Length(0, 254), is.EmailFormat),
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// Normalize trims surrounding whitespace.
func (r *SubmitQueryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// ListFilter paginates the admin listing.
type ListFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
