package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/blog"
)

var postCols = []string{
	"id", "title", "slug", "excerpt", "content", "featured_image", "author", "tags", "category",
	"status", "read_time", "views", "meta_description", "meta_keywords", "created_at", "updated_at", "published_at",
}

var summaryCols = []string{
	"id", "title", "slug", "excerpt", "featured_image", "author", "category", "tags",
	"status", "read_time", "views", "created_at", "published_at",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, blog.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepository(mock)
}

func TestIncrementViewsBySlug(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()
	var noImage *string

	mock.ExpectQuery(`UPDATE blog_posts SET views = views \+ 1\s+WHERE slug = \$1 AND status = 'published'`).
		WithArgs("hello").
		WillReturnRows(pgxmock.NewRows(postCols).AddRow(
			int64(1), "Hello", "hello", "ex", "<p>c</p>", noImage, "me", []string{"go"}, "dev",
			"published", 1, int64(8), "ex", "", now, now, &now,
		))

	p, err := repo.IncrementViewsBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.Views)
	assert.Equal(t, []string{"go"}, p.Tags)

	mock.ExpectQuery(`UPDATE blog_posts SET views = views \+ 1`).
		WithArgs("draft-post").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.IncrementViewsBySlug(context.Background(), "draft-post")
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublish_ReturnsChangedIDs(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`(?s)UPDATE blog_posts\s+SET status = 'published'.+WHERE id = ANY\(\$1\) AND status = 'draft'`).
		WithArgs([]int64{1, 2, 3}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(3)))

	ids, err := repo.Publish(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnpublish_NoMatches(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SET status = 'draft', published_at = NULL`).
		WithArgs([]int64{4}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	ids, err := repo.Unpublish(context.Background(), []int64{4})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListPublished_EmptyIsNotNil(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM blog_posts WHERE status = 'published' AND category = \$1 ORDER BY published_at DESC`).
		WithArgs("go").
		WillReturnRows(pgxmock.NewRows(summaryCols))

	cat := "go"
	posts, err := repo.ListPublished(context.Background(), &cat)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategories(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT DISTINCT category FROM blog_posts`).
		WillReturnRows(pgxmock.NewRows([]string{"category"}).AddRow("devops").AddRow("go"))

	cats, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"devops", "go"}, cats)
}

func TestCreateWithUniqueSlug(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(slugLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT slug FROM blog_posts WHERE slug = \$1 OR slug LIKE \$2`).
		WithArgs("go-tips", "go-tips%").
		WillReturnRows(pgxmock.NewRows([]string{"slug"}).AddRow("go-tips").AddRow("go-tips-2"))
	mock.ExpectQuery(`INSERT INTO blog_posts`).
		WithArgs("Go tips", "go-tips-3", "ex", "c", pgxmock.AnyArg(), "", []string{}, "", "draft", 1, "ex", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "views", "created_at", "updated_at", "published_at"}).
			AddRow(int64(12), int64(0), now, now, (*time.Time)(nil)))
	mock.ExpectCommit()

	p := &blog.BlogPost{
		Title: "Go tips", Slug: "go-tips", Excerpt: "ex", Content: "c", Tags: []string{},
		Status: blog.StatusDraft, ReadTime: 1, MetaDescription: "ex",
	}
	require.NoError(t, repo.CreateWithUniqueSlug(context.Background(), p))
	assert.Equal(t, int64(12), p.ID)
	assert.Equal(t, "go-tips-3", p.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_SlugConflict(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`INSERT INTO blog_posts`).
		WithAnyArgs().
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_slug_key"})

	err := repo.Create(context.Background(), &blog.BlogPost{Title: "x", Slug: "taken", Status: blog.StatusDraft})
	assert.ErrorIs(t, err, blog.ErrSlugConflict)
}

func TestUpdate_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`UPDATE blog_posts SET`).
		WithAnyArgs().
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), &blog.BlogPost{ID: 5, Status: blog.StatusDraft})
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

func TestCreate_StatusParamIsTyped(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)VALUES \(.*\$9::varchar, \$10.*CASE WHEN \$9::varchar = 'published' THEN NOW\(\)`).
		WithAnyArgs().
		WillReturnRows(pgxmock.NewRows([]string{"id", "views", "created_at", "updated_at", "published_at"}).
			AddRow(int64(1), int64(0), now, now, &now))

	p := &blog.BlogPost{Title: "x", Slug: "x", Status: blog.StatusPublished}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotNil(t, p.PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_StatusParamIsTyped(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)WHEN \$9::varchar = 'published'.*WHEN \$9::varchar = 'draft'.*status = \$9::varchar,`).
		WithAnyArgs().
		WillReturnRows(pgxmock.NewRows([]string{"views", "created_at", "updated_at", "published_at"}).
			AddRow(int64(3), now, now, (*time.Time)(nil)))

	p := &blog.BlogPost{ID: 2, Title: "x", Slug: "x", Status: blog.StatusDraft}
	require.NoError(t, repo.Update(context.Background(), p))
	assert.Equal(t, int64(3), p.Views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`DELETE FROM blog_posts WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), blog.ErrPostNotFound)
}
