// Package main implements the entry point for the PaperIQ API server,
// which manages user accounts and each user's saved text-analysis history.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
