package main

import (
	"context"
	"log"

	"fyne.io/fyne/v2/app"

	"github.com/basel-ax/imagegen/internal/config"
	"github.com/basel-ax/imagegen/internal/history"
	"github.com/basel-ax/imagegen/internal/service"
	"github.com/basel-ax/imagegen/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	svc, err := service.NewGenerationService(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation service: %v", err)
	}

	historyPath, err := history.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to resolve history location: %v", err)
	}
	store := history.NewStore(historyPath, cfg.PromptHistoryLimit)
	if err := store.Load(); err != nil {
		log.Printf("Failed to load prompt history: %v", err)
	}

	a := app.NewWithID("com.baselax.imagegen")
	window := ui.NewMainWindow(a, cfg, svc, store)
	window.Show()
	a.Run()
}
