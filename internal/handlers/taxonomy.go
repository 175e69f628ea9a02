package handlers

import (
	"net/http"
	"strconv"

	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TaxonomyHandler struct {
	upstream *upstreamFactory
}

func NewTaxonomyHandler(auth *services.AuthService, upstreamBaseURL string) *TaxonomyHandler {
	return &TaxonomyHandler{upstream: &upstreamFactory{auth: auth, baseURL: upstreamBaseURL}}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// ListCategories godoc
// @Summary      List upstream categories
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/taxonomy/categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	syncer, err := h.upstream.syncer(c.GetUint("author_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	page, limit := pageParams(c)
	cats, pg, err := syncer.Taxonomy.Categories(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cats, "pagination": pg})
}

// ListSubcategories godoc
// @Summary      List upstream subcategories
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query int false "Filter by category"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/taxonomy/subcategories [get]
func (h *TaxonomyHandler) ListSubcategories(c *gin.Context) {
	syncer, err := h.upstream.syncer(c.GetUint("author_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	catID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	page, limit := pageParams(c)
	subs, pg, err := syncer.Taxonomy.Subcategories(c.Request.Context(), uint(catID), page, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": subs, "pagination": pg})
}

// ListDifficulties godoc
// @Summary      List upstream difficulty levels
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} map[string]interface{}
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/taxonomy/difficulties [get]
func (h *TaxonomyHandler) ListDifficulties(c *gin.Context) {
	syncer, err := h.upstream.syncer(c.GetUint("author_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	diffs, err := syncer.Taxonomy.Difficulties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, diffs)
}
