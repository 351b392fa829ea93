package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/shared"
	"portfolio-backend/pkg/container"
)

// asynqServer wraps asynq.Server
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the server and starts processing in the background.
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		container.RedisConnOpt(cfg.Redis),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueEmail:   6,
				shared.QueueDefault: 3,
			},
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("[Asynq] task failed")
			}),
		},
	)

	go func() {
		log.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("[Worker] starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown stops fetching new tasks and waits for active ones.
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] stopped")
}
