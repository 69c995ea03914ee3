// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	userRepo "barberbook/database/repository/user"
	"barberbook/handlers"
	"barberbook/middleware"
	"barberbook/services/session"
)

// HandlerBundle groups the endpoint handlers and the dependencies the
// middleware needs.
type HandlerBundle struct {
	Auth          *handlers.AuthHandler
	Slots         *handlers.SlotHandler
	Bookings      *handlers.BookingHandler
	Devices       *handlers.DeviceHandler
	Notifications *handlers.NotificationHandler

	Sessions session.SessionService
	Users    userRepo.UserRepository
}

// RegisterAuthRoutes registers account and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)

		api.Use(middleware.SessionAuthMiddleware(hb.Sessions, hb.Users))
		api.POST("/logout", hb.Auth.Logout)
		api.POST("/logout-others", hb.Auth.LogoutOthers)
		api.GET("/sessions", hb.Auth.ListSessions)
		api.DELETE("/sessions/:sessionId", hb.Auth.RevokeSession)
		api.POST("/change-password", hb.Auth.ChangePassword)
		api.GET("/me", hb.Auth.Profile)
	}
}

// RegisterSlotRoutes registers slot management and browsing endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/slots")
	api.Use(middleware.SessionAuthMiddleware(hb.Sessions, hb.Users))
	{
		// Browsing is open to any authenticated user.
		api.GET("/available", hb.Slots.Available)
		api.GET("/availability/:barberId", hb.Slots.Availability)

		barber := api.Group("")
		barber.Use(middleware.RequireBarber())
		barber.POST("", hb.Slots.Create)
		barber.POST("/bulk", hb.Slots.CreateBulk)
		barber.POST("/template", hb.Slots.CreateFromTemplate)
		barber.GET("/mine", hb.Slots.MySlots)
		barber.DELETE("/bulk", hb.Slots.DeleteBulk)
		barber.DELETE("/:slotId", hb.Slots.Delete)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.SessionAuthMiddleware(hb.Sessions, hb.Users))
	{
		api.POST("", hb.Bookings.Book)
		api.GET("/mine", hb.Bookings.MyBookings)
		api.GET("/upcoming", hb.Bookings.Upcoming)
		api.GET("/:bookingId", hb.Bookings.Get)
		api.PUT("/:bookingId", hb.Bookings.Reschedule)
		api.DELETE("/:bookingId", hb.Bookings.Cancel)
		api.POST("/:bookingId/rating", hb.Bookings.Rate)

		barber := api.Group("")
		barber.Use(middleware.RequireBarber())
		barber.POST("/status", hb.Bookings.SetStatus)
		barber.GET("/schedule", hb.Bookings.Schedule)
	}
}

// RegisterDeviceRoutes registers push device endpoints.
func RegisterDeviceRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/devices")
	api.Use(middleware.SessionAuthMiddleware(hb.Sessions, hb.Users))
	{
		api.POST("", hb.Devices.Register)
		api.GET("", hb.Devices.List)
		api.PUT("/token", hb.Devices.UpdateToken)
		api.PUT("/:deviceId/deactivate", hb.Devices.Deactivate)
		api.PUT("/:deviceId/activate", hb.Devices.Activate)
		api.DELETE("/:deviceId", hb.Devices.Remove)
	}
}

// RegisterNotificationRoutes registers the notification inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.SessionAuthMiddleware(hb.Sessions, hb.Users))
	{
		api.GET("", hb.Notifications.List)
		api.GET("/unread-count", hb.Notifications.UnreadCount)
		api.GET("/stats", hb.Notifications.Stats)
		api.PUT("/read-all", hb.Notifications.MarkAllRead)
		api.PUT("/:notificationId/read", hb.Notifications.MarkRead)
		api.PUT("/preferences", hb.Notifications.SetEnabled)
		api.POST("/test", hb.Notifications.SendTest)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}
