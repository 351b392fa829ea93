package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/blog"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/internal/shared/utils"
	"portfolio-backend/pkg/metrics"
)

const (
	searchLimit  = 20
	fallbackSlug = "post"
)

type blogService struct {
	repo    blog.Repository
	index   blog.SearchIndex
	storage storage.ObjectStorage
	images  *storage.ImageProcessor
}

// NewBlogService wires the blog workflow. store may be nil when object
// storage is not configured; image uploads are then rejected.
func NewBlogService(
	repo blog.Repository,
	index blog.SearchIndex,
	store storage.ObjectStorage,
	images *storage.ImageProcessor,
) blog.Service {
	return &blogService{
		repo:    repo,
		index:   index,
		storage: store,
		images:  images,
	}
}

// ========================================
// PUBLIC
// ========================================

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*blog.BlogPost, error) {
	p, err := s.repo.IncrementViewsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	metrics.BlogPostViewsTotal.Inc()
	return p, nil
}

func (s *blogService) ListPublished(ctx context.Context, category *string) ([]blog.BlogPostSummary, error) {
	return s.repo.ListPublished(ctx, category)
}

func (s *blogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *blogService) Search(ctx context.Context, query string) ([]blog.BlogPostSummary, error) {
	ids, err := s.index.Search(query, searchLimit)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPublishedByIDs(ctx, ids)
}

// ========================================
// ADMIN
// ========================================

func (s *blogService) Create(ctx context.Context, req blog.CreatePostRequest) (*blog.BlogPost, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &blog.BlogPost{
		Title:           req.Title,
		Slug:            req.Slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Author:          req.Author,
		Tags:            req.Tags,
		Category:        req.Category,
		Status:          req.Status,
		ReadTime:        req.ReadTime,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}
	fillDerived(p)

	// explicit slugs must be free, derived ones get a numeric suffix
	if p.Slug != "" {
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
	} else {
		p.Slug = utils.GenerateSlug(p.Title)
		if p.Slug == "" {
			p.Slug = fallbackSlug
		}
		if err := s.repo.CreateWithUniqueSlug(ctx, p); err != nil {
			return nil, err
		}
	}

	s.reindex(p)
	log.Info().Int64("post_id", p.ID).Str("slug", p.Slug).Msg("blog post created")
	return p, nil
}

func (s *blogService) Update(ctx context.Context, id int64, req blog.UpdatePostRequest) (*blog.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if req.Content != nil && req.ReadTime == nil {
		p.ReadTime = 0
	}
	fillDerived(p)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.reindex(p)
	return p, nil
}

func (s *blogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.index.Remove(id); err != nil {
		log.Warn().Err(err).Int64("post_id", id).Msg("failed to remove post from search index")
	}
	if s.storage != nil {
		if err := s.storage.DeleteByPrefix(ctx, imagePrefix(id)); err != nil {
			log.Warn().Err(err).Int64("post_id", id).Msg("failed to delete post images")
		}
	}
	return nil
}

func (s *blogService) GetByID(ctx context.Context, id int64) (*blog.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *blogService) List(ctx context.Context, filter blog.ListFilter) ([]blog.BlogPostSummary, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Publish moves drafts among ids to published. Unknown or already
// published ids are ignored.
func (s *blogService) Publish(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	changed, err := s.repo.Publish(ctx, ids)
	if err != nil {
		return 0, err
	}

	if len(changed) > 0 {
		posts, err := s.repo.GetPostsByIDs(ctx, changed)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load published posts for indexing")
		}
		for k := range posts {
			s.reindex(&posts[k])
		}
	}

	log.Info().Int("requested", len(ids)).Int("published", len(changed)).Msg("blog posts published")
	return int64(len(changed)), nil
}

func (s *blogService) Unpublish(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	changed, err := s.repo.Unpublish(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, id := range changed {
		if err := s.index.Remove(id); err != nil {
			log.Warn().Err(err).Int64("post_id", id).Msg("failed to remove post from search index")
		}
	}

	log.Info().Int("requested", len(ids)).Int("unpublished", len(changed)).Msg("blog posts unpublished")
	return int64(len(changed)), nil
}

func (s *blogService) UploadFeaturedImage(ctx context.Context, id int64, data []byte) (*blog.BlogPost, error) {
	if s.storage == nil {
		return nil, blog.ErrStorageDisabled
	}
	if err := s.images.ValidateImage(data); err != nil {
		return nil, fmt.Errorf("%w: %w", blog.ErrImageRejected, err)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resized, err := s.images.Resize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", blog.ErrImageRejected, err)
	}

	key := fmt.Sprintf("%s%s.jpg", imagePrefix(id), uuid.NewString())
	url, err := s.storage.Upload(ctx, key, resized, "image/jpeg")
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetFeaturedImage(ctx, id, url); err != nil {
		return nil, err
	}
	p.FeaturedImage = &url

	log.Info().Int64("post_id", id).Str("key", key).Msg("featured image uploaded")
	return p, nil
}

func (s *blogService) RebuildIndex(ctx context.Context) error {
	posts, err := s.repo.PublishedPosts(ctx)
	if err != nil {
		return err
	}
	if err := s.index.Rebuild(posts); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}
	log.Info().Int("posts", len(posts)).Msg("blog search index rebuilt")
	return nil
}

// ========================================
// HELPERS
// ========================================

// fillDerived computes read time and meta description when left empty.
func fillDerived(p *blog.BlogPost) {
	if p.ReadTime <= 0 {
		p.ReadTime = blog.EstimateReadTime(p.Content)
	}
	if p.MetaDescription == "" {
		p.MetaDescription = blog.DeriveMetaDescription(p.Excerpt)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (s *blogService) reindex(p *blog.BlogPost) {
	if err := s.index.IndexPost(p); err != nil {
		log.Warn().Err(err).Int64("post_id", p.ID).Msg("failed to index blog post")
	}
}

func imagePrefix(id int64) string {
	return fmt.Sprintf("blog/%d/", id)
}
