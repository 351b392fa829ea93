package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/query"
	"portfolio-backend/internal/shared/response"
	"portfolio-backend/internal/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QueryHandler struct {
	service query.Service
}

func NewQueryHandler(service query.Service) *QueryHandler {
	return &QueryHandler{service: service}
}

// Submit handles POST /api/service-query/
// Responds 201 with the stored record before any email is sent.
func (h *QueryHandler) Submit(c *gin.Context) {
	var req query.SubmitQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	q, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// ========================================
// ADMIN
// ========================================

func (h *QueryHandler) List(c *gin.Context) {
	var filter query.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *QueryHandler) Get(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid query id")
		return
	}

	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Export handles GET /api/admin/queries/export/ and streams an XLSX file.
func (h *QueryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf); err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("service-queries-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *QueryHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, query.ErrQueryNotFound):
		response.NotFound(c, "Service query not found")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("service query request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
