package handler

import (
	"github.com/gin-gonic/gin"

	"freightiq/internal/service"
)

// LearningHandler handles learning pipeline endpoints.
type LearningHandler struct {
	learningService service.LearningService
	exportService   service.ExportService
}

// NewLearningHandler creates a new LearningHandler.
func NewLearningHandler(learningService service.LearningService, exportService service.ExportService) *LearningHandler {
	return &LearningHandler{learningService: learningService, exportService: exportService}
}

// Process handles POST /api/v1/learning/process
func (h *LearningHandler) Process(c *gin.Context) {
	result, err := h.learningService.ProcessCandidates(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Export handles GET /api/v1/suggestions/export
func (h *LearningHandler) Export(c *gin.Context) {
	result, err := h.exportService.ExportPending(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
