package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"invalid forwarded falls through", map[string]string{"X-Forwarded-For": "garbage"}, "192.0.2.9:80", "192.0.2.9"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}

func TestIsSafeRedirect(t *testing.T) {
	assert.True(t, IsSafeRedirect("/admin/"))
	assert.True(t, IsSafeRedirect("/admin/blog/?status=draft"))
	assert.False(t, IsSafeRedirect(""))
	assert.False(t, IsSafeRedirect("https://evil.example"))
	assert.False(t, IsSafeRedirect("//evil.example"))
	assert.False(t, IsSafeRedirect(`/\evil.example`))
	assert.False(t, IsSafeRedirect("admin"))
}
