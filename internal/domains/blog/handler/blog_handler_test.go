package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/blog"
)

type stubService struct {
	blog.Service // unimplemented methods panic

	posts       []blog.BlogPostSummary
	post        *blog.BlogPost
	err         error
	gotCategory *string
	gotIDs      []int64
}

func (s *stubService) ListPublished(_ context.Context, category *string) ([]blog.BlogPostSummary, error) {
	s.gotCategory = category
	return s.posts, s.err
}

func (s *stubService) GetBySlug(_ context.Context, _ string) (*blog.BlogPost, error) {
	return s.post, s.err
}

func (s *stubService) Categories(context.Context) ([]string, error) {
	return []string{"devops", "go"}, s.err
}

func (s *stubService) Create(_ context.Context, req blog.CreatePostRequest) (*blog.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &blog.BlogPost{ID: 1, Title: req.Title}, s.err
}

func (s *stubService) Publish(_ context.Context, ids []int64) (int64, error) {
	s.gotIDs = ids
	return int64(len(ids)) - 1, s.err
}

func newRouter(svc blog.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBlogHandler(svc)
	r := gin.New()
	r.GET("/api/blog/", h.List)
	r.GET("/api/blog/categories/", h.Categories)
	r.GET("/api/blog/by_category/", h.ByCategory)
	r.GET("/api/blog/search/", h.Search)
	r.GET("/api/blog/:slug/", h.Detail)
	r.POST("/api/admin/blog/", h.AdminCreate)
	r.POST("/api/admin/blog/publish/", h.Publish)
	r.PUT("/api/admin/blog/:id/", h.AdminUpdate)
	return r
}

func do(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList_BareArray(t *testing.T) {
	svc := &stubService{posts: []blog.BlogPostSummary{}}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/blog/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Nil(t, svc.gotCategory)
}

func TestByCategory(t *testing.T) {
	svc := &stubService{posts: []blog.BlogPostSummary{{ID: 1, Title: "A"}}}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/blog/by_category/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/blog/by_category/?category=go", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotCategory)
	assert.Equal(t, "go", *svc.gotCategory)
}

func TestCategoriesRouteIsNotASlug(t *testing.T) {
	r := newRouter(&stubService{})

	w := do(r, http.MethodGet, "/api/blog/categories/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["devops","go"]`, w.Body.String())
}

func TestDetail(t *testing.T) {
	r := newRouter(&stubService{post: &blog.BlogPost{ID: 3, Slug: "hello", Views: 5, Tags: []string{}}})
	w := do(r, http.MethodGet, "/api/blog/hello/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(5), got["views"])
	assert.Contains(t, got, "featured_image_url")

	r = newRouter(&stubService{err: blog.ErrPostNotFound})
	w = do(r, http.MethodGet, "/api/blog/draft/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := newRouter(&stubService{})
	w := do(r, http.MethodGet, "/api/blog/search/?q=", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCreate(t *testing.T) {
	r := newRouter(&stubService{})

	w := do(r, http.MethodPost, "/api/admin/blog/", map[string]any{"title": "T", "excerpt": "e", "content": "c"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = do(r, http.MethodPost, "/api/admin/blog/", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)
	assert.Contains(t, w.Body.String(), `"excerpt"`)

	r = newRouter(&stubService{err: blog.ErrSlugConflict})
	w = do(r, http.MethodPost, "/api/admin/blog/", map[string]any{"title": "T", "excerpt": "e", "content": "c"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublish(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := do(r, http.MethodPost, "/api/admin/blog/publish/", map[string]any{"ids": []int64{1, 2, 3}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"updated":2}}`, w.Body.String())
	assert.Equal(t, []int64{1, 2, 3}, svc.gotIDs)

	w = do(r, http.MethodPost, "/api/admin/blog/publish/", map[string]any{"ids": []int64{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUpdate_BadID(t *testing.T) {
	r := newRouter(&stubService{})
	w := do(r, http.MethodPut, "/api/admin/blog/abc/", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
