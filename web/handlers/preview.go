package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "grounder/errors"
	"grounder/web/format"
	"grounder/web/services"
	"grounder/web/types"
)

type PreviewHandler struct {
	service *services.ContextService
	logger  *zap.Logger
}

func NewPreviewHandler(service *services.ContextService, logger *zap.Logger) *PreviewHandler {
	return &PreviewHandler{
		service: service,
		logger:  logger,
	}
}

// Preview serves GET /debug/preview, rendering a context build as HTML for
// eyeballing retrieval quality. Focus terms arrive comma separated in the
// focus parameter.
func (h *PreviewHandler) Preview(c *gin.Context) {
	query := c.Query("q")
	var focusTerms []string
	if raw := c.Query("focus"); raw != "" {
		focusTerms = strings.Split(raw, ",")
	}

	resp, err := h.service.BuildContext(c.Request.Context(), types.ContextRequest{
		Query:      query,
		FocusTerms: focusTerms,
	})
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "Could not build preview", h.logger)
		return
	}

	page := format.RenderPreviewHTML(format.BuildPreviewReport(query, resp))
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
