// File: barberbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"barberbook/config"
	"barberbook/cron"
	"barberbook/database"
	bookingRepoPkg "barberbook/database/repository/booking"
	deviceRepoPkg "barberbook/database/repository/device"
	notificationRepoPkg "barberbook/database/repository/notification"
	sessionRepoPkg "barberbook/database/repository/session"
	slotRepoPkg "barberbook/database/repository/slot"
	userRepoPkg "barberbook/database/repository/user"
	"barberbook/handlers"
	"barberbook/routes"
	"barberbook/services/account"
	"barberbook/services/booking"
	"barberbook/services/device"
	"barberbook/services/notification"
	"barberbook/services/session"
	"barberbook/services/slot"
	"barberbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	ensureIndexes()

	// Push transport is optional; without credentials, notifications are
	// stored but never pushed.
	var transport notification.PushTransport
	if credFile := config.AppConfig.FirebaseCredentialsFile; credFile != "" {
		fcm, err := notification.NewFCMTransport(context.Background(), credFile)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize FCM transport: %v", err)
		}
		transport = fcm
	} else {
		logger.Sugar().Warn("main: no Firebase credentials configured, push delivery disabled")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	deviceRepo := deviceRepoPkg.NewMongoDeviceRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	sessionService := session.NewSessionService(sessionRepo, utils.GetAuthCacheClient())
	accountService := account.NewAccountService(userRepo, sessionService)
	slotService := slot.NewSlotService(slotRepo)
	notificationService := notification.NewNotificationService(
		notificationRepo,
		deviceRepo,
		userRepo,
		transport,
		config.AppConfig.PushWorkers,
		time.Duration(config.AppConfig.PushTimeoutSeconds)*time.Second,
	)
	bookingService := booking.NewBookingService(bookingRepo, slotRepo, userRepo, notificationService)
	deviceService := device.NewDeviceService(deviceRepo)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Auth:          &handlers.AuthHandler{Accounts: accountService, Sessions: sessionService},
		Slots:         &handlers.SlotHandler{Slots: slotService},
		Bookings:      &handlers.BookingHandler{Bookings: bookingService},
		Devices:       &handlers.DeviceHandler{Devices: deviceService},
		Notifications: &handlers.NotificationHandler{Notifications: notificationService},
		Sessions:      sessionService,
		Users:         userRepo,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background session cleanup.
	cron.InitSessionSweeper(sessionService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func ensureIndexes() {
	db := database.MongoClient.Database(database.DatabaseName)
	slotRepoPkg.EnsureSlotIndexes(db.Collection("slots"))
	bookingRepoPkg.EnsureBookingIndexes(db.Collection("bookings"))
	sessionRepoPkg.EnsureSessionIndexes(db.Collection("sessions"))
	deviceRepoPkg.EnsureDeviceIndexes(db.Collection("devices"))
	notificationRepoPkg.EnsureNotificationIndexes(db.Collection("notifications"))
	userRepoPkg.EnsureUserIndexes(db.Collection("users"))
}
