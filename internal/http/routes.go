package http

import (
	"time"

	"livestream_backend/internal/config"
	"livestream_backend/internal/domain"
	"livestream_backend/internal/http/handlers"
	"livestream_backend/internal/http/middleware"
	"livestream_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, hub, handlers.HandlerConfig{
		MaxChatLen:    cfg.MaxChatLen,
		LiveFeedLimit: cfg.LiveFeedLimit,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	chatWindow := time.Duration(cfg.ChatRateWindow) * time.Second
	chatRL := middleware.SimpleRateLimit(cfg.ChatRateLimit, chatWindow)
	if cfg.RedisAddr != "" {
		chatRL = middleware.RedisRateLimit(cfg.ChatRateLimit, chatWindow)
	}

	api := r.Group("/api/v1")

	// Auth
	api.POST("/auth", h.Auth)
	api.GET("/me", middleware.JWT(), h.Me)

	// Wallet and progression
	api.GET("/me/balance", middleware.JWT(), h.MyBalance)
	api.GET("/me/progress", middleware.JWT(), h.MyProgress)
	api.GET("/me/bonus", middleware.JWT(), h.DailyBonusStatus)
	api.POST("/me/bonus/claim", middleware.JWT(), h.ClaimDailyBonus)

	// Coin packages
	api.GET("/packages", h.ListCoinPackages)
	api.POST("/purchase", middleware.JWT(), h.PurchaseCoins)

	// Streams
	api.GET("/streams", h.LiveStreams)
	api.GET("/streams/:id", h.StreamDetail)
	api.POST("/streams", middleware.JWT(), middleware.RequireRole(domain.RoleStreamer), h.CreateStream)
	api.POST("/streams/:id/start", middleware.JWT(), middleware.RequireRole(domain.RoleStreamer), h.StartStream)
	api.POST("/streams/:id/stop", middleware.JWT(), middleware.RequireRole(domain.RoleStreamer), h.StopStream)

	// Chat
	api.GET("/streams/:id/chat", h.ChatHistory)
	api.POST("/streams/:id/chat", middleware.JWT(), chatRL, h.PostChatMessage)

	// Gifts
	api.GET("/gifts", h.ListGifts)
	api.POST("/streams/:id/gifts", middleware.JWT(), h.SendGift)
	streamerGifts := api.Group("/gifts", middleware.JWT(), middleware.RequireRole(domain.RoleStreamer))
	{
		streamerGifts.POST("", h.CreateGift)
		streamerGifts.PATCH("/:id", h.UpdateGift)
		streamerGifts.DELETE("/:id", h.DeactivateGift)
	}

	// Streamer dashboard
	api.GET("/streamer/dashboard", middleware.JWT(), middleware.RequireRole(domain.RoleStreamer), h.Dashboard)

	// Viewer level rules
	api.GET("/level-rules", h.ListViewerLevelRules)
	api.POST("/level-rules", middleware.JWT(), h.CreateViewerLevelRule)
	api.PATCH("/level-rules/:id", middleware.JWT(), h.UpdateViewerLevelRule)
	api.DELETE("/level-rules/:id", middleware.JWT(), h.DeactivateViewerLevelRule)

	// Per-stream event channel
	r.GET("/ws/streams/:id", middleware.JWT(), h.WS(hub))
}
