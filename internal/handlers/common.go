package handlers

import (
	"errors"
	"net/http"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/models"
	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// mutationError maps a failed draft mutation to a response: edits
// refused because a submission is running get 409, everything else 400.
func mutationError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrSubmitInFlight) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// Type aliases so swag can resolve models in annotations.
type Draft = models.Draft
type ExamDraft = editor.ExamDraft
type ValidationResult = editor.ValidationResult
type Outcome = editor.Outcome
