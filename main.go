// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"eisenflow/config"
	"eisenflow/cron"
	"eisenflow/database"
	eventRepoPkg "eisenflow/database/repository/event"
	notificationRepoPkg "eisenflow/database/repository/notification"
	settingsRepoPkg "eisenflow/database/repository/settings"
	taskRepoPkg "eisenflow/database/repository/task"
	userRepoPkg "eisenflow/database/repository/user"
	"eisenflow/handlers"
	"eisenflow/routes"
	"eisenflow/services/calendar"
	"eisenflow/services/ics"
	ai "eisenflow/services/intelligence"
	"eisenflow/services/notification"
	"eisenflow/services/schedule"
	"eisenflow/services/user"
	"eisenflow/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.InitAIContextCache()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAIContextCacheClient()},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	taskRepo := taskRepoPkg.NewMongoTaskRepo()
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	settingsRepo := settingsRepoPkg.NewMongoSettingsRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// AI clients.
	geminiClient, err := ai.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
	}
	engine := ai.NewGeminiEngine(geminiClient, logger)
	ctxStore := ai.NewRedisContextStore(utils.GetAIContextCacheClient(), 30*time.Minute)
	assistantSvc := ai.NewDefaultAssistantService(geminiClient, ctxStore, logger)

	// services.
	accountSvc := &user.DefaultAccountService{Users: userRepo, Logger: logger}
	scheduleSvc := &schedule.DefaultScheduleService{
		Tasks:    taskRepo,
		Events:   eventRepo,
		Settings: settingsRepo,
		Engine:   engine,
		Logger:   logger,
	}
	calendarSvc := calendar.NewGoogleCalendarService(eventRepo, logger)
	exportSvc := &ics.DefaultExportService{Events: eventRepo, Logger: logger}

	reminderQueue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	defer reminderQueue.Close()
	notificationSvc := &notification.DefaultNotificationService{
		Events:        eventRepo,
		Notifications: notificationRepo,
		Queue:         reminderQueue,
		Logger:        logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		Tasks:         &handlers.TaskHandler{Tasks: taskRepo},
		Events:        &handlers.EventHandler{Events: eventRepo},
		Settings:      &handlers.SettingsHandler{Settings: settingsRepo},
		Schedule:      &handlers.ScheduleHandler{Schedule: scheduleSvc, Exporter: exportSvc},
		CalendarSync:  &handlers.CalendarSyncHandler{Calendar: calendarSvc},
		Assistant:     &handlers.AssistantHandler{Assistant: assistantSvc, Tasks: taskRepo, Context: ctxStore},
		Users:         &handlers.UserHandler{Accounts: accountSvc, Users: userRepo},
		Notifications: &handlers.NotificationHandler{Notifications: notificationSvc},
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder pipeline.
	cron.InitReminderWorker(notificationSvc)
	scanScheduler := cron.StartReminderScan(notificationSvc)
	defer scanScheduler.Stop()

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
