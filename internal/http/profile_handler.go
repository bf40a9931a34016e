package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friender-bender/internal/domain"
	"friender-bender/internal/repository"
)

// DisplayCacheInvalidator descarta los datos de presentación cacheados de un usuario.
type DisplayCacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// ProfileHandler mantiene dependencias para endpoints del perfil propio.
type ProfileHandler struct {
	logger   *zap.Logger
	users    repository.UserRepository
	profiles repository.ProfileRepository
	cache    DisplayCacheInvalidator
}

func NewProfileHandler(
	logger *zap.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	cache DisplayCacheInvalidator,
) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		users:    users,
		profiles: profiles,
		cache:    cache,
	}
}

// GetMyProfile maneja GET /profile/me.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	h.respondProfile(c, userID)
}

// UpdateMyProfile maneja PUT /profile/me. Los campos omitidos no se modifican.
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name      *string `json:"name" binding:"omitempty,min=1,max=255"`
		Bio       *string `json:"bio" binding:"omitempty,max=500"`
		Location  *string `json:"location" binding:"omitempty,max=255"`
		AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.GetByID(ctx, userID); err != nil {
		h.userLookupFailed(c, userID, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be blank"})
			return
		}
		if err := h.users.UpdateName(ctx, userID, name); err != nil {
			h.logger.Error("update name failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}
	}

	update := repository.ProfileUpdate{
		Bio:       trimmed(req.Bio),
		Location:  trimmed(req.Location),
		AvatarURL: trimmed(req.AvatarURL),
	}
	if err := h.profiles.Upsert(ctx, userID, update); err != nil {
		h.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, userID); err != nil {
			h.logger.Warn("display cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	h.respondProfile(c, userID)
}

func (h *ProfileHandler) respondProfile(c *gin.Context, userID string) {
	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		h.userLookupFailed(c, userID, err)
		return
	}

	profile, err := h.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("get profile failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
			return
		}
		// Usuario sin fila de perfil todavía.
		profile = domain.Profile{ID: userID, CreatedAt: user.CreatedAt}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

func (h *ProfileHandler) userLookupFailed(c *gin.Context, userID string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	h.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
