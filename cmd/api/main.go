package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emilythestrangee/favorly/backend/internal/config"
	"github.com/emilythestrangee/favorly/backend/internal/database"
	"github.com/emilythestrangee/favorly/backend/internal/favorites"
	"github.com/emilythestrangee/favorly/backend/internal/handlers"
	"github.com/emilythestrangee/favorly/backend/internal/notify"
	"github.com/emilythestrangee/favorly/backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Bootstrap schema over the raw connection, then hand the ORM the rest
	rawDB, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := rawDB.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	rawDB.Close()

	dbService := database.New(cfg)
	db := dbService.GetDB()

	// Fan-out wiring: followers come from the favorites edge, delivery goes
	// to stored notifications and optionally Twilio SMS
	favoriteService := favorites.NewService(db)
	var sender notify.Sender = notify.NewStoreSender(db)
	if cfg.SMSEnabled() {
		sender = notify.MultiSender{
			notify.NewStoreSender(db),
			notify.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		}
	}
	dispatcher := notify.NewDispatcher(favoriteService, sender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go dispatcher.Run(ctx)

	handler := handlers.NewHandler(db, cfg, dispatcher)
	srv := server.New(cfg, handler).HTTPServer()

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited")
	os.Exit(0)
}
