package admin

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LoginRequest is the first login step.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateAdminRequest provisions an admin account.
type CreateAdminRequest struct {
	Username string
	Email    string
	Password string
}

func (r CreateAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 128)),
	)
}

// Normalize trims whitespace around user supplied identifiers.
func (r *CreateAdminRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}
