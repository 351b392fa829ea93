package repository

import (
	"context"
	"time"

	"portfolio-backend/internal/domains/admin"
	"portfolio-backend/pkg/cache"
)

const challengeKeyPrefix = "admin:otp:pending:"

type cacheChallengeStore struct {
	cache cache.Cache
}

// NewChallengeStore keeps pending challenges in the shared cache (Redis).
func NewChallengeStore(c cache.Cache) admin.ChallengeStore {
	return &cacheChallengeStore{cache: c}
}

func (s *cacheChallengeStore) Save(ctx context.Context, id string, p admin.PendingChallenge, ttl time.Duration) error {
	return s.cache.Set(ctx, challengeKeyPrefix+id, p, ttl)
}

func (s *cacheChallengeStore) Get(ctx context.Context, id string) (*admin.PendingChallenge, error) {
	var p admin.PendingChallenge
	found, err := s.cache.Get(ctx, challengeKeyPrefix+id, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *cacheChallengeStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, challengeKeyPrefix+id)
}
