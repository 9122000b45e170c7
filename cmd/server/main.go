package main

import (
	"flag"
	"log"
	"os"

	"proximity_components/pkg/api"
	"proximity_components/pkg/cluster"
	"proximity_components/pkg/config"
	"proximity_components/pkg/graph"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config, e.g. :8080)")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}

	kind, err := graph.ParseIndexKind(cfg.Index)
	if err != nil {
		log.Fatalf("Invalid index: %v", err)
	}
	log.Printf("Index: %s, workers: %d, max points per request: %d", kind, cfg.Workers, cfg.Server.MaxPoints)

	engine := cluster.NewEngine(cfg.Server.MaxPoints, graph.WithWorkers(cfg.Workers), graph.WithIndex(kind))
	handlers := api.NewHandlers(engine, cfg.Server.MaxBodyBytes, cfg.Server.MaxPoints)
	srv := api.NewServer(cfg.Server, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
