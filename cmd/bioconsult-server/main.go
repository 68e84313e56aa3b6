// Package main BioConsult API Server
//
//	@title			BioConsult API
//	@version		1.0
//	@description	Retrieval-augmented question answering over a private biology document corpus
//
//	@contact.name	API Support
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	_ "bioconsult/docs" // swagger spec registration
	"bioconsult/internal/config"
	"bioconsult/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
