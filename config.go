package main

import (
	"context"
	"log"
	"os"
	"time"

	"GoAdvisorAI/app/configs"
	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/rag"
	"GoAdvisorAI/app/storage"
)

func loadConfig() *configs.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("ℹ️ No config file at %s, using the built-in interview flow", path)
		return configs.Default()
	}
	cfg, err := configs.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Error loading configs: %v", err)
	}
	return cfg
}

func getDB(cfg *configs.Config) *storage.SQLiteSessionStorage {
	return storage.NewSQLiteStorage(cfg.Storage.Path)
}

func getCaseLibrary(cfg *configs.Config, model models.Interface) rag.Interface {
	if !cfg.Cases.Enabled {
		return nil
	}
	cases, err := rag.NewClientWithSize(model, cfg.Cases.Collection, cfg.Cases.VectorSize)
	if err != nil {
		log.Printf("⚠️ Case library unavailable, continuing without it: %v", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = cases.Init(ctx); err != nil {
		log.Printf("⚠️ Case library init failed, continuing without it: %v", err)
		return nil
	}
	return cases
}
