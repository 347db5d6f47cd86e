package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfound/lostfound-backend/internal/config"
	"github.com/campusfound/lostfound-backend/internal/http/handlers"
	"github.com/campusfound/lostfound-backend/internal/http/middleware"
	"github.com/campusfound/lostfound-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	claimHandler *handlers.ClaimHandler,
	marketplaceHandler *handlers.MarketplaceHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/verify-email/:token", authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", authHandler.ResendVerification)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
	}

	// Public routes
	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", middleware.UUIDValidator("id"), itemHandler.Get)
	api.GET("/marketplace", marketplaceHandler.List)
	api.GET("/marketplace/:id", middleware.UUIDValidator("id"), marketplaceHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/items", itemHandler.Report)
		protected.GET("/items/my", itemHandler.ListMine)
		protected.PUT("/items/:id", middleware.UUIDValidator("id"), itemHandler.Update)
		protected.DELETE("/items/:id", middleware.UUIDValidator("id"), itemHandler.Delete)

		protected.POST("/claims", claimHandler.Submit)
		protected.GET("/claims/my-claims", claimHandler.ListMine)
		protected.GET("/claims/for-my-items", claimHandler.ListForMyItems)
		protected.GET("/claims/:id", middleware.UUIDValidator("id"), claimHandler.Get)

		protected.POST("/marketplace/:id/claim", middleware.UUIDValidator("id"), marketplaceHandler.Claim)
		protected.GET("/marketplace/my/claimed", marketplaceHandler.ListClaimed)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.CountUnread)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.GET("/claims/pending", adminHandler.ListPendingClaims)
		admin.POST("/claims/:id/approve", middleware.UUIDValidator("id"), adminHandler.ApproveClaim)
		admin.POST("/claims/:id/reject", middleware.UUIDValidator("id"), adminHandler.RejectClaim)

		admin.GET("/items/found", adminHandler.ListFoundItems)
		admin.GET("/items/expiring", adminHandler.ListExpiringItems)
		admin.POST("/items/:id/extend", middleware.UUIDValidator("id"), adminHandler.ExtendItemHold)
		admin.POST("/items/:id/to-marketplace", middleware.UUIDValidator("id"), adminHandler.PromoteToMarketplace)

		admin.GET("/stats", adminHandler.GetStats)
	}

	return r
}
