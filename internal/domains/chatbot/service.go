package chatbot

import (
	"context"

	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/infrastructure/gemini"
)

// Service answers visitor questions about the portfolio.
type Service interface {
	Ask(ctx context.Context, req AskRequest) (string, error)

	// Stream emits the answer in chunks. emit errors abort the stream.
	Stream(ctx context.Context, req AskRequest, emit func(chunk string) error) error
}

// SnapshotSource is satisfied by portfolio.Service.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*portfolio.Snapshot, error)
}

// Generator is satisfied by *gemini.Client.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
	Stream(ctx context.Context, req gemini.Request, onChunk func(string) error) error
}
