package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/infrastructure/email"
)

// QueryEmailPayload is the task body for shared.TypeSendQueryEmail.
type QueryEmailPayload struct {
	Kind  email.TemplateKind `json:"kind"`
	To    []string           `json:"to"`
	Query email.QueryData    `json:"query"`
}

// ============================================
// Service Query Email Handler
// ============================================

type QueryEmailHandler struct {
	notifier email.Notifier
}

func NewQueryEmailHandler(notifier email.Notifier) *QueryEmailHandler {
	return &QueryEmailHandler{notifier: notifier}
}

// ProcessTask sends one query notification. Tasks are enqueued with MaxRetry(0),
// so a failure here is final and only logged.
func (h *QueryEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload QueryEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal QueryEmail payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	switch payload.Kind {
	case email.KindQueryAdminNotification, email.KindQueryAcknowledgment:
	default:
		return fmt.Errorf("unexpected email kind %q: %w", payload.Kind, asynq.SkipRetry)
	}

	if err := h.notifier.Send(ctx, payload.Kind, payload.To, payload.Query); err != nil {
		log.Error().
			Err(err).
			Str("kind", string(payload.Kind)).
			Int64("query_id", payload.Query.ID).
			Msg("Failed to send service query email")
		return err
	}

	log.Info().
		Str("kind", string(payload.Kind)).
		Int64("query_id", payload.Query.ID).
		Msg("Service query email sent")

	return nil
}
