package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friender-bender/internal/metrics"
	"friender-bender/internal/service"
)

// Pinger verifica que la base responda; lo cumple *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	db Pinger,
	jwtSvc *service.JWTService,
	quizH *QuizHandler,
	matchH *MatchHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthHandler(db))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authed := r.Group("", JWTAuthMiddleware(jwtSvc))

	quiz := authed.Group("/quiz")
	quiz.POST("", quizH.SubmitQuiz)
	quiz.GET("/me", quizH.GetMyQuiz)
	quiz.DELETE("/me", quizH.DeleteMyQuiz)

	matches := authed.Group("/matches")
	matches.GET("", matchH.ListMatches)
	matches.GET("/:id", matchH.GetMatch)

	profile := authed.Group("/profile")
	profile.GET("/me", profileH.GetMyProfile)
	profile.PUT("/me", profileH.UpdateMyProfile)

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
