// Command server runs the Edge Surface (§4.I): the gin HTTP server
// fronting the Tenant Registry and Retrieval Engine for every tenant.
// Meant to run under cmd/server-supervisor, which respawns it on any
// exit code other than 0.
package main

import (
	"flag"
	"log"

	"github.com/aditeya/ragtenant/internal/config"
	"github.com/aditeya/ragtenant/internal/edge"
)

func main() {
	configPath := flag.String("config", "", "path to config YAML (optional, env vars take precedence)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	srv, err := edge.New(cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
