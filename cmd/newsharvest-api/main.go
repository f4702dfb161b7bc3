package main

import (
	"flag"
	"log"

	"github.com/pevans/newsharvest/api"
	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/config"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: ~/.newsharvest/config.yaml)")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if settings.ArchiveDSN == "" {
		log.Fatalf("No archive configured: set archive.dsn or NEWSHARVEST_ARCHIVE_DSN")
	}

	store, err := archive.NewStore(settings.ArchiveDSN)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer store.Close()

	router := api.NewServer(store, settings.Publications).SetupRouter()

	log.Printf("Starting newsharvest API server on http://%s/api/v1", settings.APIAddr)

	if err := router.Run(settings.APIAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
