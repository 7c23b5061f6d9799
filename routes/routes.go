package routes

import (
	"time"

	"fitstake/handlers"
	"fitstake/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimitMiddleware())

	// Public routes (no auth required)
	router.POST("/api/auth/register", handlers.Register)
	router.POST("/api/auth/login", handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Identity
	protected.GET("/auth/me", handlers.Me)

	// Challenges
	protected.GET("/challenges/all", handlers.GetAllChallenges)
	protected.GET("/challenges", handlers.GetMyChallenges)
	protected.POST("/challenges", handlers.CreateChallenge)
	protected.GET("/challenges/:id", handlers.GetChallenge)
	protected.PUT("/challenges/:id", handlers.UpdateChallenge)
	protected.DELETE("/challenges/:id", handlers.DeleteChallenge)
	protected.POST("/challenges/:id/join", handlers.JoinChallenge)
	protected.POST("/challenges/:id/accept", handlers.JoinChallenge)
	protected.POST("/challenges/:id/leave", handlers.LeaveChallenge)
	protected.POST("/challenges/:id/complete", handlers.CompleteChallenge)
	protected.POST("/challenges/:id/verify-daily", handlers.VerifyDaily)
	protected.GET("/challenges/admin/ongoing", middleware.AdminOnly(), handlers.AdminOngoingChallenges)

	// Challenge chat and direct messages share the /chats prefix; the param
	// is a challenge ID for the room routes and a user ID for /messages.
	protected.GET("/chats/:id", handlers.GetChallengeChat)
	protected.POST("/chats/:id", handlers.PostChallengeChat)
	protected.GET("/chats/:id/messages", handlers.GetDirectMessages)
	protected.POST("/chats/:id/messages", handlers.PostDirectMessage)
	protected.POST("/chats/:id/messages/read", handlers.MarkMessagesRead)

	// Directory
	protected.GET("/users", handlers.GetUsers)

	// Profiles
	protected.GET("/profile", handlers.GetMyProfile)
	protected.POST("/profile", handlers.SaveProfile)
	protected.GET("/profile/all", middleware.AdminOnly(), handlers.AdminListProfiles)
	protected.GET("/profile/:userId/profile", handlers.GetUserProfile)
	protected.PUT("/profile/:userId/verify", middleware.AdminOnly(), handlers.AdminVerifyProfile)

	// Reports
	protected.POST("/reports", handlers.CreateReport)
	protected.GET("/reports", middleware.AdminOnly(), handlers.AdminListReports)
	protected.PUT("/reports/:id/status", middleware.AdminOnly(), handlers.AdminUpdateReportStatus)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
