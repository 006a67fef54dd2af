package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightiq/internal/service"
)

// CorrectionHandler handles correction recording endpoints.
type CorrectionHandler struct {
	patternService service.PatternService
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(patternService service.PatternService) *CorrectionHandler {
	return &CorrectionHandler{patternService: patternService}
}

// Create handles POST /api/v1/corrections
func (h *CorrectionHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CorrectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.patternService.RecordCorrection(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if result.Duplicate {
		RespondOK(c, result)
		return
	}
	RespondCreated(c, result)
}
