package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/snacksense/backend/internal/analysis"
	"github.com/snacksense/backend/internal/auth"
	"github.com/snacksense/backend/internal/catalog"
	"github.com/snacksense/backend/internal/config"
	"github.com/snacksense/backend/internal/database"
	"github.com/snacksense/backend/internal/server"
)

func main() {
	configPath := flag.String("config", config.GetConfigPath(), "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize the Gemini analyzer
	analyzer := analysis.NewGemini(cfg.Gemini)
	if err := analyzer.Load(context.Background()); err != nil {
		log.Fatal("Failed to load analyzer:", err)
	}
	defer analyzer.Close()

	// Initialize the auth service and mirror identity changes into the log
	// for the life of the process. The subscription is released on shutdown.
	authSvc := auth.NewService(db, []byte(cfg.Auth.JWTSecret), time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	defer authSvc.Close()

	sub := authSvc.Subscribe()
	defer sub.Cancel()
	go func() {
		for identity := range sub.C {
			if identity == nil {
				log.Println("Auth state: signed out")
			} else {
				log.Printf("Auth state: signed in as %s", identity.Email)
			}
		}
	}()

	// Initialize the product catalog client
	products := catalog.NewClient(cfg.Catalog.BaseURL)

	// Initialize and start server
	srv := server.New(db, authSvc, products, analyzer, cfg.Server.Debug)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
