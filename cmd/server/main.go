package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mhasan512/openwave/backend/internal/router"
	"github.com/mhasan512/openwave/backend/pkg/config"
	"github.com/mhasan512/openwave/backend/pkg/firebase"
	"github.com/mhasan512/openwave/backend/pkg/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Firebase is optional: without credentials, firebase login and the FCM
	// push fallback are disabled and everything else keeps working.
	ctx := context.Background()
	var firebaseApp *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, firebase features disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and the notification pipeline
	events := router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp, cfg.NotifyBuffer)

	// Validator
	e.Validator = validators.NewValidator()

	// Start the notification dispatcher
	busCtx, busCancel := context.WithCancel(ctx)
	events.Start(busCtx)

	// Serve until interrupted
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	<-sigCtx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Stop the pipeline after the HTTP layer so no producer emits onto a
	// closed bus; Stop drains events that were already accepted.
	busCancel()
	events.Stop()
}
