package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_AdminOTP(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.Render(KindAdminOTP, AdminOTPData{Username: "owner", Code: "042917", ValidMinutes: 5})
	require.NoError(t, err)

	assert.Equal(t, "Your admin login code", msg.Subject)
	assert.Contains(t, msg.TextBody, "042917")
	assert.Contains(t, msg.HTMLBody, "042917")
	assert.Contains(t, msg.TextBody, "5 minutes")
}

func TestRenderer_EscapesUserFieldsInHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := QueryData{
		ID:        7,
		Name:      "Ana",
		Email:     "ana@example.com",
		Subject:   "Hi\r\nBcc: victim@example.com",
		Message:   "<script>alert(1)</script>",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}

	msg, err := r.Render(KindQueryAdminNotification, data)
	require.NoError(t, err)

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
	assert.NotContains(t, msg.Subject, "\n")
	assert.Contains(t, msg.Subject, "New service query")
	assert.Contains(t, msg.TextBody, "ana@example.com")
}

func TestRenderer_UnknownKind(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(TemplateKind("nope"), nil)
	var invalid ErrInvalidMessage
	assert.ErrorAs(t, err, &invalid)
}
