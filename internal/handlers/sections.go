package handlers

import (
	"net/http"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SectionHandler struct {
	drafts   *services.DraftService
	upstream *upstreamFactory
}

func NewSectionHandler(drafts *services.DraftService, auth *services.AuthService, upstreamBaseURL string) *SectionHandler {
	return &SectionHandler{
		drafts:   drafts,
		upstream: &upstreamFactory{auth: auth, baseURL: upstreamBaseURL},
	}
}

type AddSectionRequest struct {
	Name string `json:"name" example:"Quantitative Aptitude"`
}

// AddSection godoc
// @Summary      Add a section to a draft
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        request body AddSectionRequest true "Section data"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections [post]
func (h *SectionHandler) AddSection(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var req AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		d.AddSection(req.Name)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// UpdateSection godoc
// @Summary      Patch a section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        request body editor.SectionPatch true "Fields to change"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key} [put]
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var patch editor.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		return d.UpdateSection(c.Param("key"), patch)
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// RemoveSection godoc
// @Summary      Remove a section and its questions
// @Description  A section already persisted upstream is deleted there too, so the server-side question count stays in step
// @Tags         sections
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key} [delete]
func (h *SectionHandler) RemoveSection(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		s := d.Section(c.Param("key"))
		if s == nil {
			return editor.ErrSectionNotFound
		}
		if s.RemoteID != 0 {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Sections.Delete(c.Request.Context(), s.RemoteID); err != nil {
				return err
			}
		}
		return d.RemoveSection(c.Param("key"))
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}
