// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"waypoint/internal/chat"
	"waypoint/internal/http/handlers"
	"waypoint/internal/http/middleware"
	"waypoint/internal/modules/tracking"
)

type RouterDeps struct {
	Tracker       *tracking.Service
	ChatFallback  *chat.GeminiClassifier
	Redis         *redis.Client
	RatePerMinute int
	Log           *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.Recovery(deps.Log))

	trackingHandler := handlers.NewTrackingHandler(deps.Tracker)
	routeHandler := handlers.NewRouteHandler(deps.Tracker)
	chatHandler := handlers.NewChatHandler(deps.Tracker, deps.ChatFallback, deps.Log)

	verifyLimit := middleware.RateLimit(deps.Redis, deps.RatePerMinute, deps.Log)

	r.POST("/api/sessions", trackingHandler.IssueSession)
	r.GET("/api/orders/:id/verification", trackingHandler.CheckVerification)
	r.POST("/api/orders/:id/verify", verifyLimit, trackingHandler.Verify)
	r.GET("/api/orders/:id/track", trackingHandler.Track)
	r.GET("/api/orders/:id/driver", trackingHandler.DriverLocation)
	r.GET("/api/routes/:label/progress", routeHandler.Progress)

	// Chat messages can carry verification attempts, so they share the
	// verification limiter.
	r.POST("/api/chat/message", verifyLimit, chatHandler.Message)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
