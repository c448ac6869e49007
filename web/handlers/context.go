package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "grounder/errors"
	"grounder/web/middleware"
	"grounder/web/services"
	"grounder/web/types"
)

type ContextHandler struct {
	service *services.ContextService
	logger  *zap.Logger
}

func NewContextHandler(service *services.ContextService, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{
		service: service,
		logger:  logger,
	}
}

// BuildContext serves POST /api/context
func (h *ContextHandler) BuildContext(c *gin.Context) {
	var req types.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BuildContext(c.Request.Context(), req)
	if err != nil {
		switch {
		case apperrors.IsInvalidInput(err):
			respondWithClientError(c, http.StatusBadRequest, err.Error())
		case apperrors.IsServiceUnavailable(err):
			respondWithError(c, http.StatusServiceUnavailable, err, "Retrieval backend is unavailable", h.logger)
		default:
			respondWithError(c, http.StatusInternalServerError, err, "Could not build context", h.logger)
		}
		return
	}

	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(http.StatusOK, resp)
}
