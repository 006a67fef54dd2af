package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightiq/internal/service"
)

// ScoringHandler handles document confidence scoring endpoints.
type ScoringHandler struct {
	scoringService service.ScoringService
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(scoringService service.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoringService: scoringService}
}

// ScoreDocument handles POST /api/v1/documents/score
func (h *ScoringHandler) ScoreDocument(c *gin.Context) {
	var input service.ScoreDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.scoringService.ScoreDocument(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
