package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/lab1702/trading-app/internal/di"
	"github.com/lab1702/trading-app/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = config.Default()
	}

	log.Printf("env=%s port=%d source=%s", cfg.Environment, cfg.Server.Port, cfg.MarketData.BaseURL)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
