package handlers

import (
	"errors"
	"net/http"

	"exam-authoring-backend/internal/editor"
	"exam-authoring-backend/internal/services"
	"exam-authoring-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type SubmitHandler struct {
	drafts   *services.DraftService
	upstream *upstreamFactory
	hub      *ws.Hub
}

func NewSubmitHandler(drafts *services.DraftService, auth *services.AuthService, upstreamBaseURL string, hub *ws.Hub) *SubmitHandler {
	return &SubmitHandler{
		drafts:   drafts,
		upstream: &upstreamFactory{auth: auth, baseURL: upstreamBaseURL},
		hub:      hub,
	}
}

// SubmitDraft godoc
// @Summary      Persist a draft to the upstream backend
// @Description  Runs the ordered exam→sections→questions→options sync, then uploads staged images. Progress is streamed on the draft's WebSocket. publish=true refuses to run with validation violations; otherwise the exam is saved unpublished.
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Draft ID"
// @Param        publish query bool false "Publish instead of saving as draft"
// @Success      200 {object} Outcome
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/submit [post]
func (h *SubmitHandler) SubmitDraft(c *gin.Context) {
	authorID := c.GetUint("author_id")
	id, ok := draftID(c)
	if !ok {
		return
	}
	publish := c.Query("publish") == "true"

	syncer, err := h.upstream.syncer(authorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.drafts.BeginSubmit(id); err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	defer h.drafts.EndSubmit(id)

	_, tree, err := h.drafts.Get(id, authorID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	submitter := editor.NewSubmitter(syncer)
	outcome, err := submitter.Submit(c.Request.Context(), tree, publish, func(p editor.Progress) {
		h.hub.Broadcast(id, ws.WSMessage{Type: ws.TypeProgress, Data: p})
	})

	// Server IDs assigned before a failure stay in the tree, so a retry
	// resumes with updates instead of duplicate creates.
	if saveErr := h.drafts.Save(id, authorID, tree); saveErr != nil {
		h.hub.Broadcast(id, ws.WSMessage{Type: ws.TypeError, Data: saveErr.Error()})
	}

	if err != nil {
		var pubErr *editor.PublishError
		if errors.As(err, &pubErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "validation failed",
				"violations": pubErr.Violations,
			})
			return
		}
		h.hub.Broadcast(id, ws.WSMessage{Type: ws.TypeError, Data: err.Error()})
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(id, ws.WSMessage{Type: ws.TypeOutcome, Data: outcome})
	c.JSON(http.StatusOK, outcome)
}
