package portfolio

import "context"

// Service serves cached public reads and admin edits of portfolio content.
type Service interface {
	// Profile returns nil (no error) when the owner has not created a profile yet.
	Profile(ctx context.Context) (*ProfileView, error)
	Skills(ctx context.Context) ([]SkillCategory, error)
	Experience(ctx context.Context) ([]Experience, error)
	Projects(ctx context.Context) ([]Project, error)
	Achievements(ctx context.Context) ([]Achievement, error)

	// Snapshot reads all content at once, bypassing the cache.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Admin
	GetProfile(ctx context.Context) (*Profile, error)
	UpsertProfile(ctx context.Context, req ProfileRequest) (*Profile, error)
	UploadResume(ctx context.Context, data []byte) (*Profile, error)

	CreateSkill(ctx context.Context, req SkillRequest) (*SkillCategory, error)
	UpdateSkill(ctx context.Context, id int64, req SkillRequest) (*SkillCategory, error)
	CreateExperience(ctx context.Context, req ExperienceRequest) (*Experience, error)
	UpdateExperience(ctx context.Context, id int64, req ExperienceRequest) (*Experience, error)
	CreateProject(ctx context.Context, req ProjectRequest) (*Project, error)
	UpdateProject(ctx context.Context, id int64, req ProjectRequest) (*Project, error)
	CreateAchievement(ctx context.Context, req AchievementRequest) (*Achievement, error)
	UpdateAchievement(ctx context.Context, id int64, req AchievementRequest) (*Achievement, error)
	Delete(ctx context.Context, kind Kind, id int64) error
}
