package blog

import "context"

// Service is the blog publication workflow.
type Service interface {
	// Public
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	ListPublished(ctx context.Context, category *string) ([]BlogPostSummary, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]BlogPostSummary, error)

	// Admin
	Create(ctx context.Context, req CreatePostRequest) (*BlogPost, error)
	Update(ctx context.Context, id int64, req UpdatePostRequest) (*BlogPost, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*BlogPost, error)
	List(ctx context.Context, filter ListFilter) ([]BlogPostSummary, int, error)
	Publish(ctx context.Context, ids []int64) (int64, error)
	Unpublish(ctx context.Context, ids []int64) (int64, error)
	UploadFeaturedImage(ctx context.Context, id int64, data []byte) (*BlogPost, error)

	// RebuildIndex reloads the search index from the database.
	RebuildIndex(ctx context.Context) error
}
