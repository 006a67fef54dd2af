package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freightiq/internal/domain"
	"freightiq/internal/service"
)

// SuggestionHandler handles rule suggestion endpoints.
type SuggestionHandler struct {
	suggestionService service.SuggestionService
	patternService    service.PatternService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionService service.SuggestionService, patternService service.PatternService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService, patternService: patternService}
}

// List handles GET /api/v1/suggestions
func (h *SuggestionHandler) List(c *gin.Context) {
	status := domain.SuggestionStatus(c.DefaultQuery("status", string(domain.SuggestionPending)))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.suggestionService.List(c.Request.Context(), status, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Suggestions, PagMeta{
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// Get handles GET /api/v1/suggestions/:id
func (h *SuggestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid suggestion id")
		return
	}

	suggestion, err := h.suggestionService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, suggestion)
}

// CreateManual handles POST /api/v1/suggestions
func (h *SuggestionHandler) CreateManual(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.ManualSuggestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	suggestion, err := h.suggestionService.CreateManual(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, suggestion)
}

// GenerateFromPattern handles POST /api/v1/patterns/:id/suggestion
func (h *SuggestionHandler) GenerateFromPattern(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid pattern id")
		return
	}

	suggestion, err := h.suggestionService.GenerateFromPattern(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, suggestion)
}

// Review handles POST /api/v1/suggestions/:id/review
func (h *SuggestionHandler) Review(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid suggestion id")
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	suggestion, err := h.suggestionService.Review(c.Request.Context(), userID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, suggestion)
}

// GetPattern handles GET /api/v1/patterns/:id
func (h *SuggestionHandler) GetPattern(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid pattern id")
		return
	}

	pattern, err := h.patternService.GetPattern(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, pattern)
}
