package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightiq/internal/service"
)

// ForwarderHandler handles forwarder identification endpoints.
type ForwarderHandler struct {
	forwarderService service.ForwarderService
}

// NewForwarderHandler creates a new ForwarderHandler.
func NewForwarderHandler(forwarderService service.ForwarderService) *ForwarderHandler {
	return &ForwarderHandler{forwarderService: forwarderService}
}

// Identify handles POST /api/v1/forwarders/identify
func (h *ForwarderHandler) Identify(c *gin.Context) {
	var input service.IdentifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.forwarderService.Identify(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
