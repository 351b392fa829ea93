package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer turns a TemplateKind plus data into a Message.
// Each template file defines "subject", "text" and "html" blocks.
// The html block is rendered with html/template so user supplied fields are escaped.
type Renderer struct {
	html map[TemplateKind]*htmltemplate.Template
	text map[TemplateKind]*texttemplate.Template
}

var allKinds = []TemplateKind{
	KindAdminOTP,
	KindQueryAdminNotification,
	KindQueryAcknowledgment,
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		html: make(map[TemplateKind]*htmltemplate.Template, len(allKinds)),
		text: make(map[TemplateKind]*texttemplate.Template, len(allKinds)),
	}

	for _, kind := range allKinds {
		file := "templates/" + string(kind) + ".html"

		h, err := htmltemplate.ParseFS(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse html template %s: %w", kind, err)
		}
		t, err := texttemplate.ParseFS(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse text template %s: %w", kind, err)
		}

		r.html[kind] = h
		r.text[kind] = t
	}

	return r, nil
}

// Render builds the Message for kind. Recipients are left to the caller.
func (r *Renderer) Render(kind TemplateKind, data any) (Message, error) {
	h, ok := r.html[kind]
	if !ok {
		return Message{}, ErrInvalidMessage{Reason: fmt.Sprintf("unknown template %q", kind)}
	}
	t := r.text[kind]

	var subject, text, html bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := t.ExecuteTemplate(&text, "text", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}
	if err := h.ExecuteTemplate(&html, "html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}

	return Message{
		Subject:  sanitizeHeader(subject.String()),
		TextBody: strings.TrimSpace(text.String()),
		HTMLBody: html.String(),
	}, nil
}

// sanitizeHeader keeps user supplied subjects on a single line.
func sanitizeHeader(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
