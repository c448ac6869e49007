package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"grounder/database"
	apperrors "grounder/errors"
	"grounder/rag"
	"grounder/utils"
	"grounder/web/types"
)

type FragmentsHandler struct {
	store    *database.PostgresStore
	embedder rag.Embedder
	logger   *zap.Logger
}

func NewFragmentsHandler(store *database.PostgresStore, embedder rag.Embedder, logger *zap.Logger) *FragmentsHandler {
	return &FragmentsHandler{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Upsert serves POST /api/fragments: embeds the fragment content and writes
// it to the store. Supplying an existing ID replaces that fragment.
func (h *FragmentsHandler) Upsert(c *gin.Context) {
	var req types.FragmentUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateParentID(req.ParentID); err != nil {
		respondWithClientError(c, http.StatusBadRequest, err.Error())
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondWithClientError(c, http.StatusBadRequest, "Fragment content cannot be empty")
		return
	}

	fragmentID := uuid.Nil
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			respondWithClientError(c, http.StatusBadRequest, "Fragment ID must be a UUID")
			return
		}
		fragmentID = parsed
	}

	embedding, err := h.embedder.Embed(c.Request.Context(), content)
	if err != nil {
		if apperrors.IsServiceUnavailable(err) {
			respondWithError(c, http.StatusServiceUnavailable, err, "Embedding backend is unavailable", h.logger)
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, "Could not embed fragment", h.logger)
		return
	}

	id, err := h.store.UpsertFragment(c.Request.Context(), database.Fragment{
		ID:        fragmentID,
		ParentID:  req.ParentID,
		Title:     req.Title,
		Content:   content,
		Embedding: embedding,
	})
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not store fragment", h.logger)
		return
	}

	h.logger.Info("Fragment stored",
		zap.String("fragment_id", id.String()),
		zap.String("parent_id", req.ParentID))
	c.JSON(http.StatusOK, types.FragmentUpsertResponse{ID: id.String()})
}

// DeleteByParent serves DELETE /api/fragments/:parentID, removing every
// fragment of one parent document.
func (h *FragmentsHandler) DeleteByParent(c *gin.Context) {
	parentID := c.Param("parentID")
	if err := utils.ValidateParentID(parentID); err != nil {
		respondWithClientError(c, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.store.DeleteFragmentsByParent(c.Request.Context(), parentID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not delete fragments", h.logger)
		return
	}

	h.logger.Info("Fragments deleted",
		zap.String("parent_id", parentID),
		zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, types.FragmentDeleteResponse{Deleted: deleted})
}
