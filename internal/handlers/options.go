package handlers

import (
	"errors"
	"net/http"
	"os"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type OptionHandler struct {
	drafts    *services.DraftService
	upstream  *upstreamFactory
	uploadDir string
}

func NewOptionHandler(drafts *services.DraftService, auth *services.AuthService, upstreamBaseURL, uploadDir string) *OptionHandler {
	return &OptionHandler{
		drafts:    drafts,
		upstream:  &upstreamFactory{auth: auth, baseURL: upstreamBaseURL},
		uploadDir: uploadDir,
	}
}

// AddOption godoc
// @Summary      Add an option to a question
// @Tags         options
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/options [post]
func (h *OptionHandler) AddOption(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		_, err := d.AddOption(c.Param("key"), c.Param("qkey"))
		return err
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// UpdateOption godoc
// @Summary      Patch an option's text
// @Tags         options
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        okey path string true "Option key"
// @Param        request body editor.OptionPatch true "Fields to change"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/options/{okey} [put]
func (h *OptionHandler) UpdateOption(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	var patch editor.OptionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tree, err := h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		return d.UpdateOption(c.Param("key"), c.Param("qkey"), c.Param("okey"), patch)
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// RemoveOption godoc
// @Summary      Remove an option
// @Description  Refused when the question would drop below two options
// @Tags         options
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        okey path string true "Option key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/options/{okey} [delete]
func (h *OptionHandler) RemoveOption(c *gin.Context) {
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
		// The minimum lives here, not in the mutation, so imports and
		// programmatic edits stay unrestricted.
		if len(q.Options) <= 2 {
			return errors.New("a question must keep at least 2 options")
		}
		o := q.Option(c.Param("okey"))
		if o == nil {
			return editor.ErrOptionNotFound
		}
		if o.RemoteID != 0 {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Options.Delete(c.Request.Context(), o.RemoteID); err != nil {
				return err
			}
		}
		return d.RemoveOption(c.Param("key"), c.Param("qkey"), c.Param("okey"))
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// ClearOptionImage godoc
// @Summary      Remove an option's image
// @Tags         options
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        okey path string true "Option key"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/options/{okey}/image [delete]
func (h *OptionHandler) ClearOptionImage(c *gin.Context) {
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
		o := q.Option(c.Param("okey"))
		if o == nil {
			return editor.ErrOptionNotFound
		}
		if o.RemoteID != 0 && o.Image.RemoteURL != "" {
			syncer, err := h.upstream.syncer(authorID)
			if err != nil {
				return err
			}
			if err := syncer.Options.RemoveImage(c.Request.Context(), o.RemoteID); err != nil {
				return err
			}
		}
		if o.Image.Staged() {
			os.Remove(o.Image.StagedPath)
		}
		o.Image.Clear()
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// AttachOptionImage godoc
// @Summary      Attach an image to an option
// @Description  Persisted options upload immediately; local-only options stage the file for the next submission
// @Tags         options
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        key path string true "Section key"
// @Param        qkey path string true "Question key"
// @Param        okey path string true "Option key"
// @Param        file formData file true "Image file"
// @Success      200 {object} ExamDraft
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/sections/{key}/questions/{qkey}/options/{okey}/image [post]
func (h *OptionHandler) AttachOptionImage(c *gin.Context) {
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
		o := q.Option(c.Param("okey"))
		if o == nil {
			return editor.ErrOptionNotFound
		}
		if o.RemoteID == 0 {
			o.Image.AttachStaged(staged, file.Filename)
			return nil
		}

		syncer, err := h.upstream.syncer(authorID)
		if err != nil {
			return err
		}
		url, err := syncer.Options.UploadImage(c.Request.Context(), o.RemoteID, staged)
		if err != nil {
			os.Remove(staged)
			return err
		}
		o.Image.SetRemote(url)
		os.Remove(staged)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}
