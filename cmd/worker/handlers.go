package main

import (
	"github.com/hibiken/asynq"

	adminJob "portfolio-backend/internal/domains/admin/job"
	emailjob "portfolio-backend/internal/infrastructure/email/job"
	"portfolio-backend/internal/shared"
	"portfolio-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	queryEmail       *emailjob.QueryEmailHandler
	clearExpiredOTPs *adminJob.ClearExpiredOTPsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		queryEmail:       emailjob.NewQueryEmailHandler(c.Notifier),
		clearExpiredOTPs: adminJob.NewClearExpiredOTPsHandler(c.AdminRepo),
	}
}

// RegisterHandlers binds every task type to its handler.
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeSendQueryEmail, r.queryEmail)
	mux.Handle(shared.TypeClearExpiredOTPs, r.clearExpiredOTPs)
}
