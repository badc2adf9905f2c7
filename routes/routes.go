package routes

import (
	"net/http"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/controllers"
	"github.com/Pranavpatre/Delivery-Food-Summarizer/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Sync     *controllers.SyncController
	Calendar *controllers.CalendarController
	Admin    *controllers.AdminController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			config.Settings.FrontendURL,
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "bitewise", "status": "ok"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.GET("/google/login", ctrl.Auth.GoogleLogin)
		auth.GET("/google/callback", ctrl.Auth.GoogleCallback)
		auth.POST("/google/mobile", ctrl.Auth.MobileGoogleAuth)
	}

	// Session routes behind JWT
	session := r.Group("/auth")
	session.Use(middlewares.AuthMiddleware())
	{
		session.GET("/me", ctrl.Auth.Me)
		session.POST("/logout", ctrl.Auth.Logout)
	}

	// Protected API
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/sync", ctrl.Sync.TriggerSync)
		api.GET("/sync/status", ctrl.Sync.SyncStatus)
		api.GET("/sync/ws", ctrl.Realtime.SyncWS)
		api.GET("/calendar/:year/:month", ctrl.Calendar.GetCalendarMonth)
		api.GET("/orders", ctrl.Calendar.GetOrders)
		api.GET("/summary", ctrl.Calendar.GetSummary)
	}

	// Operator dashboard, guarded by admin key
	r.GET("/admin/stats", ctrl.Admin.GetStats)

	return r
}
