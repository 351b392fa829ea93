package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/internal/shared/response"
	"portfolio-backend/internal/shared/utils"
)

// PortfolioHandler serves public content (bare JSON) and the admin
// content API (response envelope).
type PortfolioHandler struct {
	service portfolio.Service
}

func NewPortfolioHandler(service portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// PersonalData handles GET /api/personal-data/. Responds {} until a profile exists.
func (h *PortfolioHandler) PersonalData(c *gin.Context) {
	v, err := h.service.Profile(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	if v == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *PortfolioHandler) Skills(c *gin.Context) {
	list(c, h, h.service.Skills)
}

func (h *PortfolioHandler) Experience(c *gin.Context) {
	list(c, h, h.service.Experience)
}

func (h *PortfolioHandler) Projects(c *gin.Context) {
	list(c, h, h.service.Projects)
}

func (h *PortfolioHandler) Achievements(c *gin.Context) {
	list(c, h, h.service.Achievements)
}

func list[T any](c *gin.Context, h *PortfolioHandler, fn func(context.Context) ([]T, error)) {
	items, err := fn(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ========================================
// ADMIN: PROFILE
// ========================================

func (h *PortfolioHandler) AdminGetProfile(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *PortfolioHandler) AdminUpdateProfile(c *gin.Context) {
	var req portfolio.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	p, err := h.service.UpsertProfile(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UploadResume handles POST /api/admin/profile/resume/ (multipart field "resume").
func (h *PortfolioHandler) UploadResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		response.BadRequest(c, "Resume file is required")
		return
	}
	if fileHeader.Size > storage.MaxDocumentBytes {
		response.BadRequest(c, "Resume exceeds 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read resume")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxDocumentBytes+1))
	if err != nil {
		response.BadRequest(c, "Cannot read resume")
		return
	}

	p, err := h.service.UploadResume(c.Request.Context(), data)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// ========================================
// ADMIN: COLLECTIONS
// ========================================

func (h *PortfolioHandler) AdminSkills(c *gin.Context)       { adminList(c, h, h.service.Skills) }
func (h *PortfolioHandler) AdminExperience(c *gin.Context)   { adminList(c, h, h.service.Experience) }
func (h *PortfolioHandler) AdminProjects(c *gin.Context)     { adminList(c, h, h.service.Projects) }
func (h *PortfolioHandler) AdminAchievements(c *gin.Context) { adminList(c, h, h.service.Achievements) }

func (h *PortfolioHandler) CreateSkill(c *gin.Context)       { create(c, h, h.service.CreateSkill) }
func (h *PortfolioHandler) CreateExperience(c *gin.Context)  { create(c, h, h.service.CreateExperience) }
func (h *PortfolioHandler) CreateProject(c *gin.Context)     { create(c, h, h.service.CreateProject) }
func (h *PortfolioHandler) CreateAchievement(c *gin.Context) { create(c, h, h.service.CreateAchievement) }

func (h *PortfolioHandler) UpdateSkill(c *gin.Context)       { update(c, h, h.service.UpdateSkill) }
func (h *PortfolioHandler) UpdateExperience(c *gin.Context)  { update(c, h, h.service.UpdateExperience) }
func (h *PortfolioHandler) UpdateProject(c *gin.Context)     { update(c, h, h.service.UpdateProject) }
func (h *PortfolioHandler) UpdateAchievement(c *gin.Context) { update(c, h, h.service.UpdateAchievement) }

// Delete returns the handler for DELETE /api/admin/{kind}/:id/.
func (h *PortfolioHandler) Delete(kind portfolio.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.ParseIDParam(c, "id")
		if !ok {
			response.BadRequest(c, "Invalid id")
			return
		}
		if err := h.service.Delete(c.Request.Context(), kind, id); err != nil {
			h.handleError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminList[T any](c *gin.Context, h *PortfolioHandler, fn func(context.Context) ([]T, error)) {
	items, err := fn(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{Total: len(items)})
}

func create[Req, M any](c *gin.Context, h *PortfolioHandler, fn func(context.Context, Req) (*M, error)) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	m, err := fn(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func update[Req, M any](c *gin.Context, h *PortfolioHandler, fn func(context.Context, int64, Req) (*M, error)) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid id")
		return
	}

	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	m, err := fn(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// ========================================
// ERROR MAPPING
// ========================================

func (h *PortfolioHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, portfolio.ErrNotFound):
		response.NotFound(c, "Entry not found")
	case errors.Is(err, portfolio.ErrProfileNotFound):
		response.NotFound(c, "Profile has not been created yet")
	case errors.Is(err, portfolio.ErrInvalidResume):
		response.BadRequest(c, err.Error())
	case errors.Is(err, portfolio.ErrStorageDisabled):
		response.ServiceUnavailable(c, "File storage is not configured")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("portfolio request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
