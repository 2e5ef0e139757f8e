package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"GoAdvisorAI/app/clients"
	"GoAdvisorAI/app/runtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, relying on the environment")
	}

	cfg := loadConfig()

	db := getDB(cfg)
	model := cfg.BuildModel()
	cases := getCaseLibrary(cfg, model)

	controller, err := cfg.BuildController(model, cases)
	if err != nil {
		log.Fatalf("❌ Error building dialogue controller: %v", err)
	}

	rt := runtime.NewRuntime(controller, db, 0)

	registry := clients.NewRegistry()
	for _, clientCfg := range cfg.Clients {
		if !clientCfg.Enabled {
			log.Printf("⏭️ Client %s is disabled, skipping", clientCfg.Type)
			continue
		}
		client, err := clients.CreateClient(clientCfg)
		if err != nil {
			log.Fatalf("❌ Error creating %s client: %v", clientCfg.Type, err)
		}
		if err = registry.Register(client, rt); err != nil {
			log.Fatalf("❌ Error registering %s client: %v", clientCfg.Type, err)
		}
		log.Printf("✅ %s client initialized", clientCfg.Type)
	}

	go rt.Start()
	log.Printf("✅ %s started", cfg.AppName)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	registry.CloseAll()
	if cases != nil {
		if err := cases.Close(); err != nil {
			log.Printf("⚠️ Error closing case library: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		log.Printf("⚠️ Error closing session storage: %v", err)
	}
}
