package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"
	"exam-authoring-backend/internal/upstream"

	"github.com/gin-gonic/gin"
)

// upstreamFactory builds a per-author upstream syncer from the token
// stored in settings.
type upstreamFactory struct {
	auth    *services.AuthService
	baseURL string
}

func (f *upstreamFactory) syncer(authorID uint) (*upstream.Syncer, error) {
	token, err := f.auth.UpstreamToken(authorID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.New("no upstream API token configured; set it in settings first")
	}
	return upstream.NewSyncer(upstream.NewClient(f.baseURL, token)), nil
}

type DraftHandler struct {
	drafts    *services.DraftService
	upstream  *upstreamFactory
	uploadDir string
}

func NewDraftHandler(drafts *services.DraftService, auth *services.AuthService, upstreamBaseURL, uploadDir string) *DraftHandler {
	return &DraftHandler{
		drafts:    drafts,
		upstream:  &upstreamFactory{auth: auth, baseURL: upstreamBaseURL},
		uploadDir: uploadDir,
	}
}

func draftID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid draft id"})
		return 0, false
	}
	return uint(id), true
}

type CreateDraftRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"SSC CGL Mock 1"`
}

// CreateDraft godoc
// @Summary      Create an empty exam draft
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateDraftRequest true "Draft data"
// @Success      201 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	authorID := c.GetUint("author_id")

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rec, _, err := h.drafts.Create(authorID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

type ImportExamRequest struct {
	ExamID uint `json:"exam_id" binding:"required" example:"42"`
}

// ImportExam godoc
// @Summary      Load a persisted upstream exam into a new draft
// @Description  Fetches the full exam tree from the upstream backend for editing
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ImportExamRequest true "Upstream exam ID"
// @Success      201 {object} Draft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/import-exam [post]
func (h *DraftHandler) ImportExam(c *gin.Context) {
	authorID := c.GetUint("author_id")

	var req ImportExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	syncer, err := h.upstream.syncer(authorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := syncer.FetchDraft(c.Request.Context(), req.ExamID)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.drafts.CreateFromTree(authorID, tree)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// ListDrafts godoc
// @Summary      List the author's drafts
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Draft
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/drafts [get]
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	authorID := c.GetUint("author_id")

	drafts, err := h.drafts.List(authorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, drafts)
}

// GetDraft godoc
// @Summary      Get a draft's full tree
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Success      200 {object} ExamDraft
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	_, tree, err := h.drafts.Get(id, authorID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, tree)
}

// DeleteDraft godoc
// @Summary      Discard a draft
// @Description  Pass delete_exam=true to also delete the persisted upstream exam
// @Tags         drafts
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        delete_exam query bool false "Delete the upstream exam as well"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [delete]
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	if c.Query("delete_exam") == "true" {
		rec, _, err := h.drafts.Get(id, authorID)
		if err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		if rec.ExamRemoteID != 0 {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			if err := syncer.Exams.Delete(c.Request.Context(), rec.ExamRemoteID); err != nil {
				c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
				return
			}
		}
	}

	if err := h.drafts.Delete(id, authorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "draft deleted"})
}

// UpdateMeta godoc
// @Summary      Patch exam-level metadata
// @Description  Partial update; toggling anytime normalizes the scheduling window
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        request body editor.MetaPatch true "Fields to change"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/meta [put]
func (h *DraftHandler) UpdateMeta(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var patch editor.MetaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		d.UpdateMeta(patch)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// AttachBanner godoc
// @Summary      Attach a banner image to the exam
// @Description  A persisted exam re-syncs its metadata with the banner in one multipart call; a local-only exam stages the file for the next submission
// @Tags         drafts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        file formData file true "Banner image"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/banner [post]
func (h *DraftHandler) AttachBanner(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}

	staged, err := stageUpload(c, file, h.uploadDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		if d.Exam.RemoteID == 0 {
			d.Exam.Banner.AttachStaged(staged, file.Filename)
			return nil
		}

		// Already persisted upstream: re-sync the exam with the banner
		// riding the same multipart call. A failed update leaves the
		// banner slot untouched.
		syncer, err := h.upstream.syncer(authorID)
		if err != nil {
			return err
		}
		prev := d.Exam.Banner
		d.Exam.Banner.AttachStaged(staged, file.Filename)
		if _, err := syncer.UpdateExam(c.Request.Context(), &d.Exam, d.Exam.IsPublished); err != nil {
			d.Exam.Banner = prev
			os.Remove(staged)
			return err
		}
		os.Remove(staged)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// ClearBanner godoc
// @Summary      Remove the exam's banner image
// @Tags         drafts
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/banner [delete]
func (h *DraftHandler) ClearBanner(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		if d.Exam.RemoteID != 0 && d.Exam.Banner.RemoteURL != "" {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Exams.RemoveBanner(c.Request.Context(), d.Exam.RemoteID); err != nil {
				return err
			}
		}
		if d.Exam.Banner.Staged() {
			os.Remove(d.Exam.Banner.StagedPath)
		}
		d.Exam.Banner.Clear()
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// ValidateDraft godoc
// @Summary      Validate a draft
// @Description  Recomputes the violation list; pass bilingual=true for language coverage checks
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        bilingual query bool false "Include bilingual coverage checks"
// @Success      200 {object} ValidationResult
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/validate [get]
func (h *DraftHandler) ValidateDraft(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	_, tree, err := h.drafts.Get(id, authorID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	if c.Query("bilingual") == "true" {
		c.JSON(http.StatusOK, editor.ValidateBilingual(tree))
		return
	}
	c.JSON(http.StatusOK, editor.Validate(tree))
}
