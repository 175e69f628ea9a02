package handlers

import (
	"io"
	"net/http"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	drafts *services.DraftService
}

func NewImportHandler(drafts *services.DraftService) *ImportHandler {
	return &ImportHandler{drafts: drafts}
}

type ImportResponse struct {
	ImportedQuestions int `json:"imported_questions"`
}

// ImportCSV godoc
// @Summary      Import questions from a CSV file
// @Description  Parses section/question/option rows and merges them into the draft as new local nodes
// @Tags         drafts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        file formData file true "CSV file"
// @Success      200 {object} ImportResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/import [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file required"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read file"})
		return
	}

	sections, err := editor.ParseCSV(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	imported := 0
	_, err = h.drafts.Mutate(id, authorID, func(d *editor.ExamDraft) error {
		imported = d.Merge(sections)
		return nil
	})
	if err != nil {
		mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{ImportedQuestions: imported})
}
