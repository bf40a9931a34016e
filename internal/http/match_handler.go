package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friender-bender/internal/domain"
	"friender-bender/internal/service"
)

// MatchRanker es lo que el handler necesita de service.MatchService.
type MatchRanker interface {
	RankMatches(ctx context.Context, viewerID string) ([]domain.Match, error)
	MatchProfile(ctx context.Context, viewerID, candidateID string) (domain.MatchProfile, error)
}

// MatchHandler expone el ranking y el detalle de cada candidato.
type MatchHandler struct {
	logger  *zap.Logger
	matches MatchRanker
}

func NewMatchHandler(logger *zap.Logger, matches MatchRanker) *MatchHandler {
	return &MatchHandler{
		logger:  logger,
		matches: matches,
	}
}

// ListMatches maneja GET /matches.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	matches, err := h.matches.RankMatches(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.logger.Error("rank matches failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetMatch maneja GET /matches/:id.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	candidateID := strings.TrimSpace(c.Param("id"))
	if candidateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing match id"})
		return
	}

	profile, err := h.matches.MatchProfile(c.Request.Context(), userID, candidateID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("match profile failed",
			zap.String("user_id", userID),
			zap.String("candidate_id", candidateID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": profile})
}
