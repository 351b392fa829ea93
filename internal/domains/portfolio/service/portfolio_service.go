package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/pkg/cache"
)

// CacheTTL bounds staleness of public reads if an invalidation is missed.
const CacheTTL = 10 * time.Minute

const (
	keyProfile      = "portfolio:profile"
	keySkills       = "portfolio:skills"
	keyExperience   = "portfolio:experience"
	keyProjects     = "portfolio:projects"
	keyAchievements = "portfolio:achievements"
	keyPattern      = "portfolio:*"
)

type portfolioService struct {
	repo    portfolio.Repository
	cache   cache.Cache
	storage storage.ObjectStorage
}

// NewPortfolioService builds the content service. c and store may be nil:
// reads then go straight to the repository and resume uploads are rejected.
func NewPortfolioService(repo portfolio.Repository, c cache.Cache, store storage.ObjectStorage) portfolio.Service {
	return &portfolioService{repo: repo, cache: c, storage: store}
}

// cachedProfile lets an absent profile be cached too.
type cachedProfile struct {
	Profile *portfolio.ProfileView `json:"profile"`
}

// ========================================
// PUBLIC READS
// ========================================

func (s *portfolioService) Profile(ctx context.Context) (*portfolio.ProfileView, error) {
	v, err := readThrough(ctx, s.cache, keyProfile, func(ctx context.Context) (cachedProfile, error) {
		p, err := s.repo.GetProfile(ctx)
		if errors.Is(err, portfolio.ErrProfileNotFound) {
			return cachedProfile{}, nil
		}
		if err != nil {
			return cachedProfile{}, err
		}
		view := p.View()
		return cachedProfile{Profile: &view}, nil
	})
	return v.Profile, err
}

func (s *portfolioService) Skills(ctx context.Context) ([]portfolio.SkillCategory, error) {
	return readThrough(ctx, s.cache, keySkills, s.repo.ListSkills)
}

func (s *portfolioService) Experience(ctx context.Context) ([]portfolio.Experience, error) {
	return readThrough(ctx, s.cache, keyExperience, s.repo.ListExperience)
}

func (s *portfolioService) Projects(ctx context.Context) ([]portfolio.Project, error) {
	return readThrough(ctx, s.cache, keyProjects, s.repo.ListProjects)
}

func (s *portfolioService) Achievements(ctx context.Context) ([]portfolio.Achievement, error) {
	return readThrough(ctx, s.cache, keyAchievements, s.repo.ListAchievements)
}

func (s *portfolioService) Snapshot(ctx context.Context) (*portfolio.Snapshot, error) {
	snap := &portfolio.Snapshot{}

	p, err := s.repo.GetProfile(ctx)
	switch {
	case err == nil:
		snap.Profile = p
	case !errors.Is(err, portfolio.ErrProfileNotFound):
		return nil, err
	}

	if snap.Skills, err = s.repo.ListSkills(ctx); err != nil {
		return nil, err
	}
	if snap.Experience, err = s.repo.ListExperience(ctx); err != nil {
		return nil, err
	}
	if snap.Projects, err = s.repo.ListProjects(ctx); err != nil {
		return nil, err
	}
	if snap.Achievements, err = s.repo.ListAchievements(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Cache failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, c cache.Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c != nil {
		found, err := c.Get(ctx, key, &v)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("portfolio cache read failed")
		} else if found {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if c != nil {
		if err := c.Set(ctx, key, v, CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("portfolio cache write failed")
		}
	}
	return v, nil
}

func (s *portfolioService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, keyPattern); err != nil {
		log.Warn().Err(err).Msg("portfolio cache invalidation failed")
	}
}

// ========================================
// ADMIN: PROFILE
// ========================================

func (s *portfolioService) GetProfile(ctx context.Context) (*portfolio.Profile, error) {
	return s.repo.GetProfile(ctx)
}

func (s *portfolioService) UpsertProfile(ctx context.Context, req portfolio.ProfileRequest) (*portfolio.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &portfolio.Profile{}
	req.Apply(p)
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Int64("profile_id", p.ID).Msg("profile saved")
	return p, nil
}

func (s *portfolioService) UploadResume(ctx context.Context, data []byte) (*portfolio.Profile, error) {
	if s.storage == nil {
		return nil, portfolio.ErrStorageDisabled
	}
	if err := storage.ValidatePDF(data); err != nil {
		return nil, fmt.Errorf("%w: %w", portfolio.ErrInvalidResume, err)
	}

	// the profile must exist before a resume can be attached
	if _, err := s.repo.GetProfile(ctx); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("resume/%s.pdf", uuid.NewString())
	url, err := s.storage.Upload(ctx, key, data, "application/pdf")
	if err != nil {
		return nil, err
	}

	p, err := s.repo.SetResumeURL(ctx, url)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("key", key).Msg("resume uploaded")
	return p, nil
}

// ========================================
// ADMIN: COLLECTIONS
// ========================================

func (s *portfolioService) CreateSkill(ctx context.Context, req portfolio.SkillRequest) (*portfolio.SkillCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	if err := s.repo.CreateSkill(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) UpdateSkill(ctx context.Context, id int64, req portfolio.SkillRequest) (*portfolio.SkillCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	m.ID = id
	if err := s.repo.UpdateSkill(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) CreateExperience(ctx context.Context, req portfolio.ExperienceRequest) (*portfolio.Experience, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	if err := s.repo.CreateExperience(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) UpdateExperience(ctx context.Context, id int64, req portfolio.ExperienceRequest) (*portfolio.Experience, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	m.ID = id
	if err := s.repo.UpdateExperience(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) CreateProject(ctx context.Context, req portfolio.ProjectRequest) (*portfolio.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	if err := s.repo.CreateProject(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) UpdateProject(ctx context.Context, id int64, req portfolio.ProjectRequest) (*portfolio.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	m.ID = id
	if err := s.repo.UpdateProject(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) CreateAchievement(ctx context.Context, req portfolio.AchievementRequest) (*portfolio.Achievement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	if err := s.repo.CreateAchievement(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) UpdateAchievement(ctx context.Context, id int64, req portfolio.AchievementRequest) (*portfolio.Achievement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := req.Model()
	m.ID = id
	if err := s.repo.UpdateAchievement(ctx, &m); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &m, nil
}

func (s *portfolioService) Delete(ctx context.Context, kind portfolio.Kind, id int64) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	log.Info().Str("kind", string(kind)).Int64("id", id).Msg("portfolio entry deleted")
	return nil
}
