package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/troopops/task-tracker/internal/api"
	"github.com/troopops/task-tracker/internal/config"
	"github.com/troopops/task-tracker/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	router := api.SetupRouter(db, cfg)

	if cfg.EmailConfigured() {
		log.Printf("Email delivery enabled (from %s)", cfg.ResendFrom)
	} else {
		log.Println("No email provider configured, running in dry-run mode")
	}

	log.Printf("Task tracker listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
