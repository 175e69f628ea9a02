package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam-authoring-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func TestMutationErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"submission in flight", services.ErrSubmitInFlight, http.StatusConflict},
		{"wrapped in-flight sentinel", fmt.Errorf("draft 3: %w", services.ErrSubmitInFlight), http.StatusConflict},
		{"ordinary mutation error", errors.New("section not found"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			mutationError(c, tt.err)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
