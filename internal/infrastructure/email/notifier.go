package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"portfolio-backend/pkg/metrics"
)

// Notifier is the email boundary used by the domains.
// Send renders the template for kind and makes exactly one delivery attempt.
type Notifier interface {
	Send(ctx context.Context, kind TemplateKind, to []string, data any) error
}

type templateNotifier struct {
	enabled   bool
	renderer  *Renderer
	transport Transport
}

// NewNotifier wires a renderer to a transport. When enabled is false every
// Send returns ErrDisabled without touching the transport.
func NewNotifier(enabled bool, renderer *Renderer, transport Transport) Notifier {
	return &templateNotifier{
		enabled:   enabled,
		renderer:  renderer,
		transport: transport,
	}
}

func (n *templateNotifier) Send(ctx context.Context, kind TemplateKind, to []string, data any) error {
	if !n.enabled {
		metrics.EmailSendTotal.WithLabelValues(string(kind), "disabled").Inc()
		return ErrDisabled{}
	}

	msg, err := n.renderer.Render(kind, data)
	if err != nil {
		metrics.EmailSendTotal.WithLabelValues(string(kind), "failed").Inc()
		return err
	}
	msg.To = to
	if q, ok := data.(QueryData); ok && kind == KindQueryAdminNotification {
		msg.ReplyTo = q.Email
	}

	if err := n.transport.Send(ctx, msg); err != nil {
		metrics.EmailSendTotal.WithLabelValues(string(kind), "failed").Inc()
		return fmt.Errorf("send %s email: %w", kind, err)
	}

	metrics.EmailSendTotal.WithLabelValues(string(kind), "sent").Inc()
	log.Debug().
		Str("kind", string(kind)).
		Str("transport", n.transport.Name()).
		Int("recipients", len(to)).
		Msg("email sent")

	return nil
}
