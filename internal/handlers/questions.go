package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionHandler struct {
	drafts    *services.DraftService
	upstream  *upstreamFactory
	uploadDir string
}

func NewQuestionHandler(drafts *services.DraftService, auth *services.AuthService, upstreamBaseURL, uploadDir string) *QuestionHandler {
	return &QuestionHandler{
		drafts:    drafts,
		upstream:  &upstreamFactory{auth: auth, baseURL: upstreamBaseURL},
		uploadDir: uploadDir,
	}
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// stageUpload writes an uploaded image into the staging dir under a
// fresh name and returns its path.
func stageUpload(c *gin.Context, file *multipart.FileHeader, uploadDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	if file.Size > 10<<20 {
		return "", fmt.Errorf("file too large (max 10MB)")
	}

	os.MkdirAll(uploadDir, 0755)
	dst := filepath.Join(uploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return dst, nil
}

type AddQuestionRequest struct {
	Type string `json:"type" example:"single"`
}

// AddQuestion godoc
// @Summary      Add a question to a section
// @Description  Option-bearing types are seeded with 4 empty options
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        request body AddQuestionRequest true "Question type"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions [post]
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		_, err := d.AddQuestion(c.Param("key"), req.Type)
		return err
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// UpdateQuestion godoc
// @Summary      Patch a question
// @Description  Changing the type away from an option-bearing one preserves existing options
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        request body editor.QuestionPatch true "Fields to change"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var patch editor.QuestionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		return d.UpdateQuestion(c.Param("key"), c.Param("qkey"), patch)
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// RemoveQuestion godoc
// @Summary      Remove a question
// @Description  A question already persisted upstream is deleted there too, so the server-side question count stays in step
// @Tags         questions
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey} [delete]
func (h *QuestionHandler) RemoveQuestion(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		q := d.Question(c.Param("key"), c.Param("qkey"))
		if q == nil {
			return editor.ErrQuestionNotFound
		}
		if q.RemoteID != 0 {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Questions.Delete(c.Request.Context(), q.RemoteID); err != nil {
				return err
			}
		}
		return d.RemoveQuestion(c.Param("key"), c.Param("qkey"))
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

type SetCorrectRequest struct {
	OptionKey string `json:"option_key" binding:"required"`
}

// SetCorrectAnswer godoc
// @Summary      Mark an option as the correct answer
// @Description  For single/truefalse the target becomes the only correct option; for multiple it is toggled
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        request body SetCorrectRequest true "Target option"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/correct [put]
func (h *QuestionHandler) SetCorrectAnswer(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var req SetCorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		return d.SetCorrectAnswer(c.Param("key"), c.Param("qkey"), req.OptionKey)
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// IgnoreImageRequirement godoc
// @Summary      Dismiss a question's image-required flag
// @Tags         questions
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/ignore-image [post]
func (h *QuestionHandler) IgnoreImageRequirement(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		return d.IgnoreImageRequirement(c.Param("key"), c.Param("qkey"))
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// AttachQuestionImage godoc
// @Summary      Attach an image to a question
// @Description  Persisted questions upload immediately; local-only questions stage the file for the next submission
// @Tags         questions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        file formData file true "Image file"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/image [post]
func (h *QuestionHandler) AttachQuestionImage(c *gin.Context) {
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
		q := d.Question(c.Param("key"), c.Param("qkey"))
		if q == nil {
			return editor.ErrQuestionNotFound
		}
		if q.RemoteID == 0 {
			q.Image.AttachStaged(staged, file.Filename)
			return nil
		}

		// Already persisted upstream: upload now, keyed by the server
		// ID. A failed upload leaves the question untouched.
		syncer, err := h.upstream.syncer(authorID)
		if err != nil {
			return err
		}
		url, err := syncer.Questions.UploadImage(c.Request.Context(), q.RemoteID, staged)
		if err != nil {
			os.Remove(staged)
			return err
		}
		q.Image.SetRemote(url)
		os.Remove(staged)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// ClearQuestionImage godoc
// @Summary      Remove a question's image
// @Tags         questions
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/image [delete]
func (h *QuestionHandler) ClearQuestionImage(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		q := d.Question(c.Param("key"), c.Param("qkey"))
		if q == nil {
			return editor.ErrQuestionNotFound
		}
		if q.RemoteID != 0 && q.Image.RemoteURL != "" {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Questions.RemoveImage(c.Request.Context(), q.RemoteID); err != nil {
				return err
			}
		}
		if q.Image.Staged() {
			os.Remove(q.Image.StagedPath)
		}
		q.Image.Clear()
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}
