package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/domains/blog"
	"portfolio-backend/internal/infrastructure/database"
	pgtx "portfolio-backend/pkg/database"
)

// slugLockKey serialises slug allocation across concurrent creates.
const slugLockKey int64 = 0x626c6f67 // "blog"

const slugConstraint = "blog_posts_slug_key"

const postColumns = `id, title, slug, excerpt, content, featured_image, author, tags, category,
	status, read_time, views, meta_description, meta_keywords, created_at, updated_at, published_at`

const summaryColumns = `id, title, slug, excerpt, featured_image, author, category, tags,
	status, read_time, views, created_at, published_at`

type postgresRepository struct {
	db database.Pool
}

// NewPostgresRepository returns the blog.Repository backed by PostgreSQL.
func NewPostgresRepository(db database.Pool) blog.Repository {
	return &postgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*blog.BlogPost, error) {
	var p blog.BlogPost
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.FeaturedImage,
		&p.Author,
		&p.Tags,
		&p.Category,
		&p.Status,
		&p.ReadTime,
		&p.Views,
		&p.MetaDescription,
		&p.MetaKeywords,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSummary(row scanner) (blog.BlogPostSummary, error) {
	var s blog.BlogPostSummary
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Slug,
		&s.Excerpt,
		&s.FeaturedImage,
		&s.Author,
		&s.Category,
		&s.Tags,
		&s.Status,
		&s.ReadTime,
		&s.Views,
		&s.CreatedAt,
		&s.PublishedAt,
	)
	return s, err
}

func collectSummaries(rows pgx.Rows) ([]blog.BlogPostSummary, error) {
	defer rows.Close()

	out := make([]blog.BlogPostSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func collectPosts(rows pgx.Rows) ([]blog.BlogPost, error) {
	defer rows.Close()

	out := make([]blog.BlogPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ========================================
// ADMIN WRITES
// ========================================

func insertPost(ctx context.Context, q database.Querier, p *blog.BlogPost) error {
	query := `
		INSERT INTO blog_posts (
			title, slug, excerpt, content, featured_image, author, tags, category,
			status, read_time, meta_description, meta_keywords, published_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::varchar, $10, $11, $12,
			CASE WHEN $9::varchar = 'published' THEN NOW() ELSE NULL END)
		RETURNING id, views, created_at, updated_at, published_at
	`

	err := q.QueryRow(ctx, query,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.FeaturedImage,
		p.Author,
		p.Tags,
		p.Category,
		p.Status,
		p.ReadTime,
		p.MetaDescription,
		p.MetaKeywords,
	).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	if err != nil {
		if database.IsUniqueViolation(err, slugConstraint) {
			return blog.ErrSlugConflict
		}
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, p *blog.BlogPost) error {
	return insertPost(ctx, r.db, p)
}

func (r *postgresRepository) CreateWithUniqueSlug(ctx context.Context, p *blog.BlogPost) error {
	base := p.Slug

	return pgtx.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, slugLockKey); err != nil {
			return fmt.Errorf("lock slugs: %w", err)
		}

		rows, err := tx.Query(ctx,
			`SELECT slug FROM blog_posts WHERE slug = $1 OR slug LIKE $2`,
			base, blog.SlugStem(base)+"%",
		)
		if err != nil {
			return fmt.Errorf("load taken slugs: %w", err)
		}
		taken, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("scan taken slugs: %w", err)
		}

		p.Slug = blog.NextSlug(base, taken)
		return insertPost(ctx, tx, p)
	})
}

func (r *postgresRepository) Update(ctx context.Context, p *blog.BlogPost) error {
	query := `
		UPDATE blog_posts SET
			title = $2,
			slug = $3,
			excerpt = $4,
			content = $5,
			author = $6,
			tags = $7,
			category = $8,
			published_at = CASE
				WHEN $9::varchar = 'published' AND status <> 'published' THEN NOW()
				WHEN $9::varchar = 'draft' THEN NULL
				ELSE published_at
			END,
			status = $9::varchar,
			read_time = $10,
			meta_description = $11,
			meta_keywords = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING views, created_at, updated_at, published_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.Author,
		p.Tags,
		p.Category,
		p.Status,
		p.ReadTime,
		p.MetaDescription,
		p.MetaKeywords,
	).Scan(&p.Views, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return blog.ErrPostNotFound
	}
	if err != nil {
		if database.IsUniqueViolation(err, slugConstraint) {
			return blog.ErrSlugConflict
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) SetFeaturedImage(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE blog_posts SET featured_image = $2, updated_at = NOW() WHERE id = $1`,
		id, url,
	)
	if err != nil {
		return fmt.Errorf("set featured image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) Publish(ctx context.Context, ids []int64) ([]int64, error) {
	query := `
		UPDATE blog_posts
		SET status = 'published', published_at = NOW(), updated_at = NOW()
		WHERE id = ANY($1) AND status = 'draft'
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("publish posts: %w", err)
	}
	return collectIDs(rows)
}

func (r *postgresRepository) Unpublish(ctx context.Context, ids []int64) ([]int64, error) {
	query := `
		UPDATE blog_posts
		SET status = 'draft', published_at = NULL, updated_at = NOW()
		WHERE id = ANY($1) AND status = 'published'
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("unpublish posts: %w", err)
	}
	return collectIDs(rows)
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*blog.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) IncrementViewsBySlug(ctx context.Context, slug string) (*blog.BlogPost, error) {
	query := `
		UPDATE blog_posts SET views = views + 1
		WHERE slug = $1 AND status = 'published'
		RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) ListPublished(ctx context.Context, category *string) ([]blog.BlogPostSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM blog_posts WHERE status = 'published'`
	args := []any{}
	if category != nil {
		query += ` AND category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY published_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return collectSummaries(rows)
}

func (r *postgresRepository) ListPublishedByIDs(ctx context.Context, ids []int64) ([]blog.BlogPostSummary, error) {
	if len(ids) == 0 {
		return []blog.BlogPostSummary{}, nil
	}

	query := `SELECT ` + summaryColumns + ` FROM blog_posts WHERE id = ANY($1) AND status = 'published'`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list posts by ids: %w", err)
	}
	found, err := collectSummaries(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]blog.BlogPostSummary, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	ordered := make([]blog.BlogPostSummary, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

func (r *postgresRepository) PublishedPosts(ctx context.Context) ([]blog.BlogPost, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE status = 'published'`)
	if err != nil {
		return nil, fmt.Errorf("load published posts: %w", err)
	}
	return collectPosts(rows)
}

func (r *postgresRepository) GetPostsByIDs(ctx context.Context, ids []int64) ([]blog.BlogPost, error) {
	if len(ids) == 0 {
		return []blog.BlogPost{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	return collectPosts(rows)
}

func (r *postgresRepository) List(ctx context.Context, filter blog.ListFilter) ([]blog.BlogPostSummary, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE ($1 = '' OR status = $1)`,
		filter.Status,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `
		SELECT ` + summaryColumns + `
		FROM blog_posts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filter.Status, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	items, err := collectSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *postgresRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM blog_posts
		WHERE status = 'published' AND category <> ''
		ORDER BY category
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
