package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/chatbot"
	"portfolio-backend/internal/infrastructure/gemini"
	"portfolio-backend/pkg/metrics"
)

type chatbotService struct {
	content   chatbot.SnapshotSource
	generator chatbot.Generator
	persona   string
}

// NewChatbotService builds the assistant. An empty persona uses the default one.
func NewChatbotService(content chatbot.SnapshotSource, generator chatbot.Generator, persona string) chatbot.Service {
	return &chatbotService{content: content, generator: generator, persona: persona}
}

func (s *chatbotService) Ask(ctx context.Context, req chatbot.AskRequest) (string, error) {
	gr, err := s.prepare(ctx, &req)
	if err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, gr)
	if err != nil {
		metrics.ChatbotRequestsTotal.WithLabelValues("plain", "error").Inc()
		log.Error().Err(err).Msg("chatbot generation failed")
		return "", chatbot.ErrUpstream
	}

	metrics.ChatbotRequestsTotal.WithLabelValues("plain", "ok").Inc()
	return text, nil
}

func (s *chatbotService) Stream(ctx context.Context, req chatbot.AskRequest, emit func(string) error) error {
	gr, err := s.prepare(ctx, &req)
	if err != nil {
		return err
	}

	var emitErr error
	err = s.generator.Stream(ctx, gr, func(chunk string) error {
		if err := emit(chunk); err != nil {
			emitErr = err
			return err
		}
		return nil
	})
	if err != nil {
		if emitErr != nil && errors.Is(err, emitErr) {
			// client went away; nothing to report upstream
			log.Debug().Err(err).Msg("chatbot stream aborted by client")
			return err
		}
		metrics.ChatbotRequestsTotal.WithLabelValues("stream", "error").Inc()
		log.Error().Err(err).Msg("chatbot stream failed")
		return chatbot.ErrUpstream
	}

	metrics.ChatbotRequestsTotal.WithLabelValues("stream", "ok").Inc()
	return nil
}

// prepare validates the request and assembles the model input from one
// portfolio snapshot.
func (s *chatbotService) prepare(ctx context.Context, req *chatbot.AskRequest) (gemini.Request, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return gemini.Request{}, err
	}

	snap, err := s.content.Snapshot(ctx)
	if err != nil {
		return gemini.Request{}, fmt.Errorf("load portfolio snapshot: %w", err)
	}

	prompt, err := chatbot.BuildSystemPrompt(s.persona, snap)
	if err != nil {
		return gemini.Request{}, err
	}

	contents := make([]gemini.Content, 0, len(req.History)+1)
	for _, t := range req.History {
		contents = append(contents, gemini.Content{Role: t.Role, Parts: []gemini.Part{{Text: t.Content}}})
	}
	contents = append(contents, gemini.UserText(req.Query))

	return gemini.Request{
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: prompt}}},
		Contents:          contents,
	}, nil
}
