package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/blog"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/internal/shared/response"
	"portfolio-backend/internal/shared/utils"
)

// BlogHandler serves the public blog API (bare JSON bodies) and the
// admin blog API (response envelope).
type BlogHandler struct {
	service blog.Service
}

func NewBlogHandler(service blog.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// List handles GET /api/blog/ (optional ?category=).
func (h *BlogHandler) List(c *gin.Context) {
	var category *string
	if v, ok := c.GetQuery("category"); ok && strings.TrimSpace(v) != "" {
		category = &v
	}

	posts, err := h.service.ListPublished(c.Request.Context(), category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Detail handles GET /api/blog/:slug/ and counts one view.
func (h *BlogHandler) Detail(c *gin.Context) {
	post, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Categories handles GET /api/blog/categories/
func (h *BlogHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ByCategory handles GET /api/blog/by_category/?category=X
func (h *BlogHandler) ByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		response.BadRequest(c, "Category parameter is required")
		return
	}

	posts, err := h.service.ListPublished(c.Request.Context(), &category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Search handles GET /api/blog/search/?q=
func (h *BlogHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.BadRequest(c, "Query parameter q is required")
		return
	}

	posts, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

func (h *BlogHandler) AdminList(c *gin.Context) {
	var filter blog.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	posts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *BlogHandler) AdminGet(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post id")
		return
	}

	post, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

func (h *BlogHandler) AdminCreate(c *gin.Context) {
	var req blog.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, post)
}

func (h *BlogHandler) AdminUpdate(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post id")
		return
	}

	var req blog.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

func (h *BlogHandler) AdminDelete(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Publish handles POST /api/admin/blog/publish/ {"ids": [...]}
func (h *BlogHandler) Publish(c *gin.Context) {
	h.batch(c, h.service.Publish)
}

// Unpublish handles POST /api/admin/blog/unpublish/ {"ids": [...]}
func (h *BlogHandler) Unpublish(c *gin.Context) {
	h.batch(c, h.service.Unpublish)
}

func (h *BlogHandler) batch(c *gin.Context, action func(context.Context, []int64) (int64, error)) {
	var req blog.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	updated, err := action(c.Request.Context(), req.IDs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// UploadImage handles POST /api/admin/blog/:id/image/ (multipart field "image").
func (h *BlogHandler) UploadImage(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > storage.DefaultMaxImageBytes {
		response.BadRequest(c, "Image exceeds 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.DefaultMaxImageBytes+1))
	if err != nil {
		response.BadRequest(c, "Cannot read image")
		return
	}

	post, err := h.service.UploadFeaturedImage(c.Request.Context(), id, data)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// ========================================
// ERROR MAPPING
// ========================================

func (h *BlogHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, blog.ErrPostNotFound):
		response.NotFound(c, "Blog post not found")
	case errors.Is(err, blog.ErrSlugConflict):
		response.Conflict(c, "A post with this slug already exists")
	case errors.Is(err, blog.ErrImageRejected):
		response.BadRequest(c, err.Error())
	case errors.Is(err, blog.ErrStorageDisabled):
		response.ServiceUnavailable(c, "Image storage is not configured")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("blog request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
