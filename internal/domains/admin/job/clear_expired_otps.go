package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/pkg/logger"
)

// ClearExpiredOTPsPayload lets a manual run pin the reference time.
type ClearExpiredOTPsPayload struct {
	Date time.Time `json:"date,omitempty"`
}

type ClearExpiredOTPsHandler struct {
	repo admin.Repository
}

func NewClearExpiredOTPsHandler(repo admin.Repository) *ClearExpiredOTPsHandler {
	return &ClearExpiredOTPsHandler{repo: repo}
}

// ProcessTask blanks every code whose validity window has passed.
func (h *ClearExpiredOTPsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ClearExpiredOTPsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("unmarshal clear otps payload", err)
			return err
		}
	}

	ref := time.Now()
	if !payload.Date.IsZero() {
		ref = payload.Date
	}

	cleared, err := h.repo.ClearExpiredOTPs(ctx, ref.Add(-admin.OTPValidity))
	if err != nil {
		logger.Error("clear expired otps failed", err)
		return err
	}

	log.Info().
		Time("reference", ref).
		Int64("cleared", cleared).
		Msg("cleared expired admin codes")
	return nil
}
