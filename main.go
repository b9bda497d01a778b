package main

import (
	"log"
	"os"
	"path/filepath"

	"sentinel-bot/bot"
	"sentinel-bot/config"
	"sentinel-bot/handlers"
	infractions_db "sentinel-bot/utils/database/infractions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := infractions_db.Init(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()
	b.Close()
}
