package handlers

import (
	"net/http"
	"strings"

	"exam-authoring-backend/internal/models"
	"exam-authoring-backend/internal/upstream"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	db              *gorm.DB
	upstreamBaseURL string
}

func NewSettingsHandler(db *gorm.DB, upstreamBaseURL string) *SettingsHandler {
	return &SettingsHandler{db: db, upstreamBaseURL: upstreamBaseURL}
}

type SettingsResponse struct {
	UpstreamToken string `json:"upstream_token"`
}

type UpdateSettingsRequest struct {
	UpstreamToken string `json:"upstream_token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// GetSettings godoc
// @Summary      Get author settings
// @Description  Get the stored upstream API token (masked)
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SettingsResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	authorID := c.GetUint("author_id")

	var author models.Author
	if err := h.db.First(&author, authorID).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "author not found"})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		UpstreamToken: maskToken(author.UpstreamToken),
	})
}

// UpdateSettings godoc
// @Summary      Update author settings
// @Description  Store the upstream API token used for exam sync; the token is verified against the upstream backend
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateSettingsRequest true "Settings data"
// @Success      200 {object} SettingsResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	authorID := c.GetUint("author_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token := strings.TrimSpace(req.UpstreamToken)
	if token != "" {
		// Cheapest authenticated read the upstream exposes.
		client := upstream.NewClient(h.upstreamBaseURL, token)
		if _, err := upstream.NewTaxonomyService(client).Difficulties(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "upstream rejected the token: " + err.Error()})
			return
		}
	}

	if err := h.db.Model(&models.Author{}).Where("id = ?", authorID).
		Update("upstream_token", token).Error; err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{UpstreamToken: maskToken(token)})
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:4] + "..." + token[len(token)-4:]
}
