package blog

import "context"

// Repository is the data access contract for blog posts.
type Repository interface {
	// ========================================
	// ADMIN WRITES
	// ========================================

	// Create inserts p as is. Returns ErrSlugConflict on a duplicate slug.
	Create(ctx context.Context, p *BlogPost) error

	// CreateWithUniqueSlug treats p.Slug as a base and stores the first
	// free variant (base, base-2, base-3, ...).
	CreateWithUniqueSlug(ctx context.Context, p *BlogPost) error

	// Update writes every editable column. published_at follows status
	// transitions. Returns ErrPostNotFound or ErrSlugConflict.
	Update(ctx context.Context, p *BlogPost) error

	Delete(ctx context.Context, id int64) error

	SetFeaturedImage(ctx context.Context, id int64, url string) error

	// Publish moves drafts among ids to published and returns the changed ids.
	Publish(ctx context.Context, ids []int64) ([]int64, error)

	// Unpublish moves published posts among ids back to draft.
	Unpublish(ctx context.Context, ids []int64) ([]int64, error)

	// ========================================
	// READS
	// ========================================

	GetByID(ctx context.Context, id int64) (*BlogPost, error)

	// IncrementViewsBySlug bumps the view counter of a published post in
	// one statement and returns the updated row.
	IncrementViewsBySlug(ctx context.Context, slug string) (*BlogPost, error)

	// ListPublished orders by published_at DESC; category nil means all.
	ListPublished(ctx context.Context, category *string) ([]BlogPostSummary, error)

	// ListPublishedByIDs keeps the order of ids and drops drafts.
	ListPublishedByIDs(ctx context.Context, ids []int64) ([]BlogPostSummary, error)

	// PublishedPosts returns full published posts (search index rebuild).
	PublishedPosts(ctx context.Context) ([]BlogPost, error)

	GetPostsByIDs(ctx context.Context, ids []int64) ([]BlogPost, error)

	List(ctx context.Context, filter ListFilter) ([]BlogPostSummary, int, error)

	// Categories returns the distinct categories of published posts, sorted.
	Categories(ctx context.Context) ([]string, error)
}

// SearchIndex is the full-text index over published posts.
type SearchIndex interface {
	IndexPost(p *BlogPost) error
	Remove(id int64) error
	Rebuild(posts []BlogPost) error
	// Search returns matching post ids, best match first.
	Search(query string, limit int) ([]int64, error)
}
