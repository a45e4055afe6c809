// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"eisenflow/handlers"
	"eisenflow/middleware"
	"eisenflow/utils"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.Users.RegisterUserHandler)
		api.POST("/login", hb.Users.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.Users.GetCurrentUserHandler)
		api.DELETE("/revoke", hb.Users.RevokeUserAuthTokenHandler)
	}
}

// RegisterTaskRoutes registers task CRUD endpoints.
func RegisterTaskRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tasks")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.Tasks.CreateTaskHandler)
		api.GET("", hb.Tasks.ListTasksHandler)
		api.GET("/:id", hb.Tasks.GetTaskHandler)
		api.PUT("/:id", hb.Tasks.UpdateTaskHandler)
		api.DELETE("/:id", hb.Tasks.DeleteTaskHandler)
	}
}

// RegisterEventRoutes registers calendar event endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.Events.ListEventsHandler)
		api.POST("", hb.Events.CreateEventHandler)
		api.DELETE("/:id", hb.Events.DeleteEventHandler)
	}
}

// RegisterScheduleRoutes registers planning endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/generate", hb.Schedule.GeneratePlanHandler)
		api.GET("/slots", hb.Schedule.PreviewSlotsHandler)
		api.GET("/ics", hb.Schedule.ExportICSHandler)
	}
}

// RegisterCalendarRoutes registers external calendar sync endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/sync", hb.CalendarSync.SyncCalendarHandler)
	}
}

// RegisterAssistantRoutes registers assistant endpoints.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assistant")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/chat", hb.Assistant.ChatHandler)
		api.DELETE("/context", hb.Assistant.ClearContextHandler)
	}
}

// RegisterSettingsRoutes registers planner settings endpoints.
func RegisterSettingsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/settings")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.Settings.GetSettingsHandler)
		api.PUT("", hb.Settings.UpdateSettingsHandler)
	}
}

// RegisterNotificationRoutes registers reminder inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.Notifications.ListNotificationsHandler)
		api.PUT("/:id/read", hb.Notifications.MarkNotificationReadHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterUserRoutes(r, hb)
	RegisterTaskRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterAssistantRoutes(r, hb)
	RegisterSettingsRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r)
}
