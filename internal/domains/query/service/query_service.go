package service

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/query"
	"portfolio-backend/pkg/metrics"
)

type queryService struct {
	repo       query.Repository
	dispatcher query.Dispatcher
}

func NewQueryService(repo query.Repository, dispatcher query.Dispatcher) query.Service {
	return &queryService{repo: repo, dispatcher: dispatcher}
}

func (s *queryService) Submit(ctx context.Context, req query.SubmitQueryRequest) (*query.ServiceQuery, error) {
	// 1. VALIDATE (nothing is written on failure)
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. PERSIST
	q := &query.ServiceQuery{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	metrics.ServiceQueriesTotal.Inc()
	log.Info().Int64("query_id", q.ID).Msg("service query received")

	// 3. NOTIFY (fire and forget)
	s.dispatcher.Dispatch(*q)

	return q, nil
}

func (s *queryService) Get(ctx context.Context, id int64) (*query.ServiceQuery, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *queryService) List(ctx context.Context, filter query.ListFilter) ([]query.ServiceQuery, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *queryService) Export(ctx context.Context, w io.Writer) error {
	queries, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, queries)
}
