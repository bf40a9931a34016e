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

// QuizManager es lo que el handler necesita de service.QuizService.
type QuizManager interface {
	Submit(ctx context.Context, userID string, input service.SubmitQuizInput) (domain.QuizRecord, error)
	Latest(ctx context.Context, userID string) (*domain.QuizRecord, error)
	Delete(ctx context.Context, userID string) (int64, error)
}

// QuizHandler mantiene dependencias para endpoints del quiz.
type QuizHandler struct {
	logger  *zap.Logger
	quizzes QuizManager
}

func NewQuizHandler(logger *zap.Logger, quizzes QuizManager) *QuizHandler {
	return &QuizHandler{
		logger:  logger,
		quizzes: quizzes,
	}
}

type submitQuizRequest struct {
	Interests          []string `json:"interests" binding:"required,min=1"`
	SocialStyle        string   `json:"social_style" binding:"required"`
	FriendshipValues   []string `json:"friendship_values" binding:"required,min=1,max=2"`
	CommunicationStyle string   `json:"communication_style" binding:"required"`
	HangoutVibe        []string `json:"hangout_vibe" binding:"required,min=1"`
	Availability       struct {
		Preset      string   `json:"preset"`
		CustomDays  []string `json:"custom_days"`
		CustomTimes []string `json:"custom_times"`
	} `json:"availability"`
	Dealbreakers []string `json:"dealbreakers"`
	Bio          string   `json:"bio" binding:"max=500"`
}

// SubmitQuiz maneja POST /quiz.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quiz request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	quiz, err := h.quizzes.Submit(c.Request.Context(), userID, service.SubmitQuizInput{
		Interests:          req.Interests,
		SocialStyle:        req.SocialStyle,
		FriendshipValues:   req.FriendshipValues,
		CommunicationStyle: req.CommunicationStyle,
		HangoutVibe:        req.HangoutVibe,
		Availability: domain.Availability{
			Preset:      req.Availability.Preset,
			CustomDays:  req.Availability.CustomDays,
			CustomTimes: req.Availability.CustomTimes,
		},
		Dealbreakers: req.Dealbreakers,
		Bio:          req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuiz):
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), service.ErrInvalidQuiz.Error()+": ")})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("submit quiz failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save quiz"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quiz": quiz})
}

// GetMyQuiz maneja GET /quiz/me. Sin quiz responde {"quiz": null}.
func (h *QuizHandler) GetMyQuiz(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	quiz, err := h.quizzes.Latest(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("get quiz failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteMyQuiz maneja DELETE /quiz/me para poder rehacer el quiz.
func (h *QuizHandler) DeleteMyQuiz(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	deleted, err := h.quizzes.Delete(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("delete quiz failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
