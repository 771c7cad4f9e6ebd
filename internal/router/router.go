package router

import (
	"log"
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/mhasan512/openwave/backend/internal/handlers"
	"github.com/mhasan512/openwave/backend/internal/middleware"
	"github.com/mhasan512/openwave/backend/internal/models"
	"github.com/mhasan512/openwave/backend/internal/notify"
	"github.com/mhasan512/openwave/backend/internal/repositories"
	"github.com/mhasan512/openwave/backend/pkg/firebase"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes, wires the notification
// pipeline and returns the event bus so the caller owns its lifecycle.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseApp *firebase.App, notifyBuffer int) *notify.Bus {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Comment{},
		&models.Reaction{},
		&models.CommentReaction{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.DeviceToken{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("openwave"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	commentReactionRepo := repositories.NewPostgresCommentReactionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(pgdb)
	deviceTokenRepo := repositories.NewPostgresDeviceTokenRepository(pgdb)

	// --- Notification pipeline ---
	pipelineLogger := slog.Default().With(slog.String("component", "notify"))
	hub := notify.NewHub(pipelineLogger)
	prefs := notify.NewPreferenceResolver(preferenceRepo, pipelineLogger)
	dispatcher := notify.NewDispatcher(notificationRepo, prefs, userRepo, hub, pipelineLogger)
	if firebaseApp != nil && firebaseApp.MessagingClient != nil {
		dispatcher.WithPush(notify.NewFCMDeliverer(firebaseApp.MessagingClient, pipelineLogger), deviceTokenRepo)
		log.Println("FCM push fallback enabled.")
	}
	events := notify.NewBus(notifyBuffer, dispatcher.Handle, pipelineLogger)
	mentions := notify.NewMentionResolver(userRepo)
	log.Println("Notification pipeline configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	var authClient *auth.Client
	if firebaseApp != nil {
		authClient = firebaseApp.AuthClient
	}
	authHandler := handlers.NewAuthHandler(userRepo, authClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, mentions, events)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, events)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, mentions, events)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionRepo, commentReactionRepo, postRepo, commentRepo, events)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, preferenceRepo, deviceTokenRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Websocket route for real-time delivery
	wsHandler := handlers.NewWSHandler(hub)
	wsHandler.RegisterWSRoutes(api)
	log.Println("Websocket route configured.")

	log.Println("All routes configured.")
	return events
}
