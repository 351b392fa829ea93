package portfolio

import "context"

// Repository persists portfolio content. Lists are ordered by id.
type Repository interface {
	// GetProfile returns ErrProfileNotFound when no row exists.
	GetProfile(ctx context.Context) (*Profile, error)
	// SaveProfile updates the first profile row, inserting one if none exists.
	SaveProfile(ctx context.Context, p *Profile) error
	SetResumeURL(ctx context.Context, url string) (*Profile, error)

	ListSkills(ctx context.Context) ([]SkillCategory, error)
	CreateSkill(ctx context.Context, s *SkillCategory) error
	UpdateSkill(ctx context.Context, s *SkillCategory) error

	ListExperience(ctx context.Context) ([]Experience, error)
	CreateExperience(ctx context.Context, e *Experience) error
	UpdateExperience(ctx context.Context, e *Experience) error

	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error

	ListAchievements(ctx context.Context) ([]Achievement, error)
	CreateAchievement(ctx context.Context, a *Achievement) error
	UpdateAchievement(ctx context.Context, a *Achievement) error

	// Delete removes one entry of a collection. ErrNotFound when absent.
	Delete(ctx context.Context, kind Kind, id int64) error
}
