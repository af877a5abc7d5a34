// Command carrental-fakeapi serves the rental REST API from memory so the
// portals can run without the real backend.
package main

import (
	"log"
	"net/http"
	"os"

	"carrental/internal/config"
	"carrental/internal/fakeapi"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	srv := fakeapi.NewServer(nil, fakeapi.Options{
		SessionToken:   cfg.API.AdminSession,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AccessLog:      os.Stdout,
	})

	port := cfg.Server.Port
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, srv))
}
