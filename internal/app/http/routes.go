package routes

import (
	"lessons-app/config"
	"lessons-app/database"
	adminapi "lessons-app/internal/api/admin"
	authapi "lessons-app/internal/api/auth"
	billingapi "lessons-app/internal/api/billing"
	"lessons-app/internal/api/dashboard"
	favoritesapi "lessons-app/internal/api/favorites"
	lessonsapi "lessons-app/internal/api/lessons"
	stripewebhooks "lessons-app/internal/api/stripewebhook"
	"lessons-app/internal/api/users"
	"lessons-app/internal/app/http/middleware"
	"lessons-app/internal/domain/billing"
	"lessons-app/internal/infra/checkout"
	"lessons-app/internal/infra/store"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	engine := billing.NewReconciler(
		store.NewGormLedger(database.DB),
		store.NewGormEntitlements(database.DB),
	)
	provider := checkout.NewStripeProvider(config.STRIPE_SECRET_KEY)
	billingHandler := billingapi.NewHandler(provider, engine)
	webhookHandler := stripewebhooks.NewHandler(config.STRIPE_WEBHOOK_SECRET, engine)

	// The webhook stays out of the sanitized group: its body is
	// signature-checked raw bytes.
	r.POST("/api/payment/webhook", webhookHandler.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/register", authapi.Register)
	public.POST("/auth/login", authapi.Login)
	public.GET("/auth/verify", users.VerifyEmail)
	public.POST("/auth/resend-verification", authapi.ResendVerification)
	public.POST("/auth/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/auth/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/lessons", lessonsapi.ListPublicLessons)
	public.GET("/lessons/featured", lessonsapi.ListFeaturedLessons)
	public.GET("/lessons/author/:userId", lessonsapi.ListLessonsByAuthor)
	public.GET("/lessons/:id", middleware.OptionalAuth(), lessonsapi.GetLessonByID)
	public.GET("/lessons/:id/comments", lessonsapi.ListComments)

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())

	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/users/sync", users.SyncProfile)
	auth.POST("/auth/change-password", authapi.ChangePassword)

	auth.POST("/payment/create-checkout-session", billingHandler.CreateCheckoutSession)
	auth.POST("/payment/verify-session", billingHandler.VerifySession)
	auth.GET("/payment/history", billingapi.GetPaymentHistory)
	auth.GET("/payment/status", billingapi.GetPaymentStatus)

	auth.GET("/lessons/my", lessonsapi.ListMyLessons)
	auth.POST("/lessons", lessonsapi.CreateLesson)
	auth.PUT("/lessons/:id", lessonsapi.UpdateLesson)
	auth.DELETE("/lessons/:id", lessonsapi.DeleteLesson)

	auth.POST("/lessons/:id/like", lessonsapi.ToggleLike)
	auth.POST("/lessons/:id/report", lessonsapi.ReportLesson)
	auth.POST("/lessons/:id/comments", lessonsapi.CreateComment)

	auth.POST("/favorites/:lessonId", favoritesapi.ToggleFavorite)
	auth.DELETE("/favorites/:lessonId", favoritesapi.RemoveFavorite)
	auth.GET("/favorites", favoritesapi.ListMyFavorites)

	auth.GET("/dashboard/overview", dashboard.GetOverview)

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/stats", adminapi.GetStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.PATCH("/users/:id/role", adminapi.UpdateUserRole)
	admin.GET("/lessons", adminapi.ListAllLessons)
	admin.PATCH("/lessons/:id/feature", adminapi.ToggleFeatured)
	admin.DELETE("/lessons/:id", adminapi.DeleteLesson)
	admin.GET("/reports", adminapi.ListReportedLessons)
	admin.GET("/reports/:id", adminapi.ListLessonReports)
}
