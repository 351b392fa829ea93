package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/infrastructure/database"
	pgtx "portfolio-backend/pkg/database"
)

const profileColumns = `id, name, role, tagline, mission, about_title, about_description, about_values,
	email, linkedin, github, resume_url, updated_at`

var tables = map[portfolio.Kind]string{
	portfolio.KindSkills:       "skill_categories",
	portfolio.KindExperience:   "experiences",
	portfolio.KindProjects:     "projects",
	portfolio.KindAchievements: "achievements",
}

type postgresRepository struct {
	db database.Pool
}

func NewPostgresRepository(db database.Pool) portfolio.Repository {
	return &postgresRepository{db: db}
}

// ========================================
// PROFILE
// ========================================

func (r *postgresRepository) GetProfile(ctx context.Context) (*portfolio.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM personal_data ORDER BY id LIMIT 1`

	p, err := scanProfile(r.db.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, portfolio.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) SaveProfile(ctx context.Context, p *portfolio.Profile) error {
	return pgtx.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		update := `
			UPDATE personal_data SET
				name = $1, role = $2, tagline = $3, mission = $4, about_title = $5,
				about_description = $6, about_values = $7, email = $8, linkedin = $9, github = $10,
				updated_at = NOW()
			WHERE id = (SELECT id FROM personal_data ORDER BY id LIMIT 1)
			RETURNING id, resume_url, updated_at
		`
		args := []any{
			p.Name, p.Role, p.Tagline, p.Mission, p.AboutTitle,
			p.AboutDescription, p.AboutValues, p.Email, p.LinkedIn, p.GitHub,
		}

		err := tx.QueryRow(ctx, update, args...).Scan(&p.ID, &p.ResumeURL, &p.UpdatedAt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update profile: %w", err)
		}

		insert := `
			INSERT INTO personal_data (
				name, role, tagline, mission, about_title,
				about_description, about_values, email, linkedin, github
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, resume_url, updated_at
		`
		if err := tx.QueryRow(ctx, insert, args...).Scan(&p.ID, &p.ResumeURL, &p.UpdatedAt); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) SetResumeURL(ctx context.Context, url string) (*portfolio.Profile, error) {
	query := `
		UPDATE personal_data SET resume_url = $1, updated_at = NOW()
		WHERE id = (SELECT id FROM personal_data ORDER BY id LIMIT 1)
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRow(ctx, query, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, portfolio.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set resume url: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*portfolio.Profile, error) {
	var p portfolio.Profile
	err := row.Scan(
		&p.ID, &p.Name, &p.Role, &p.Tagline, &p.Mission, &p.AboutTitle,
		&p.AboutDescription, &p.AboutValues,
		&p.Email, &p.LinkedIn, &p.GitHub, &p.ResumeURL, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ========================================
// SKILLS
// ========================================

func (r *postgresRepository) ListSkills(ctx context.Context) ([]portfolio.SkillCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, items FROM skill_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portfolio.SkillCategory, error) {
		var s portfolio.SkillCategory
		err := row.Scan(&s.ID, &s.Name, &s.Items)
		return s, err
	})
}

func (r *postgresRepository) CreateSkill(ctx context.Context, s *portfolio.SkillCategory) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO skill_categories (name, items) VALUES ($1, $2) RETURNING id`,
		s.Name, s.Items,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create skill category: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateSkill(ctx context.Context, s *portfolio.SkillCategory) error {
	return r.execUpdate(ctx, "update skill category",
		`UPDATE skill_categories SET name = $2, items = $3 WHERE id = $1`,
		s.ID, s.Name, s.Items,
	)
}

// ========================================
// EXPERIENCE
// ========================================

func (r *postgresRepository) ListExperience(ctx context.Context) ([]portfolio.Experience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company, role, period, color, description, achievements FROM experiences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portfolio.Experience, error) {
		var e portfolio.Experience
		err := row.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.Color, &e.Description, &e.Achievements)
		return e, err
	})
}

func (r *postgresRepository) CreateExperience(ctx context.Context, e *portfolio.Experience) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO experiences (company, role, period, color, description, achievements)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.Company, e.Role, e.Period, e.Color, e.Description, e.Achievements,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("create experience: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateExperience(ctx context.Context, e *portfolio.Experience) error {
	return r.execUpdate(ctx, "update experience", `
		UPDATE experiences SET company = $2, role = $3, period = $4, color = $5,
			description = $6, achievements = $7
		WHERE id = $1`,
		e.ID, e.Company, e.Role, e.Period, e.Color, e.Description, e.Achievements,
	)
}

// ========================================
// PROJECTS
// ========================================

func (r *postgresRepository) ListProjects(ctx context.Context) ([]portfolio.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, category, description, tech, link FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portfolio.Project, error) {
		var p portfolio.Project
		err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.Tech, &p.Link)
		return p, err
	})
}

func (r *postgresRepository) CreateProject(ctx context.Context, p *portfolio.Project) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO projects (title, category, description, tech, link)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Title, p.Category, p.Description, p.Tech, p.Link,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateProject(ctx context.Context, p *portfolio.Project) error {
	return r.execUpdate(ctx, "update project", `
		UPDATE projects SET title = $2, category = $3, description = $4, tech = $5, link = $6
		WHERE id = $1`,
		p.ID, p.Title, p.Category, p.Description, p.Tech, p.Link,
	)
}

// ========================================
// ACHIEVEMENTS
// ========================================

func (r *postgresRepository) ListAchievements(ctx context.Context) ([]portfolio.Achievement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, metric, label, description FROM achievements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (portfolio.Achievement, error) {
		var a portfolio.Achievement
		err := row.Scan(&a.ID, &a.Metric, &a.Label, &a.Description)
		return a, err
	})
}

func (r *postgresRepository) CreateAchievement(ctx context.Context, a *portfolio.Achievement) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO achievements (metric, label, description) VALUES ($1, $2, $3) RETURNING id`,
		a.Metric, a.Label, a.Description,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create achievement: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateAchievement(ctx context.Context, a *portfolio.Achievement) error {
	return r.execUpdate(ctx, "update achievement",
		`UPDATE achievements SET metric = $2, label = $3, description = $4 WHERE id = $1`,
		a.ID, a.Metric, a.Label, a.Description,
	)
}

// ========================================
// SHARED
// ========================================

func (r *postgresRepository) Delete(ctx context.Context, kind portfolio.Kind, id int64) error {
	table, ok := tables[kind]
	if !ok {
		return fmt.Errorf("unknown portfolio collection %q", kind)
	}
	return r.execUpdate(ctx, "delete "+string(kind),
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
}

func (r *postgresRepository) execUpdate(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}
