package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glossa/cache"
	"glossa/nlp"
	"glossa/service"
	"glossa/worker"
)

func main() {
	// Initialize dependencies
	c, err := cache.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	annotator := newAnnotator()

	worker.RegisterMetrics()
	r := worker.NewRunner(c, annotator)
	r.Start()

	// Initialize handlers
	h := service.NewJobHandler(r, c)

	// Register routes
	http.HandleFunc("/run", h.HandleRun)
	http.HandleFunc("/status", h.HandleStatus)
	http.HandleFunc("/rows", h.HandleRows)
	http.HandleFunc("/info", h.HandleInfo)
	http.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// newAnnotator builds the Natural Language API wrapper. With no usable
// credentials the service still runs, limited to pre-computed responses.
func newAnnotator() worker.Annotator {
	key := os.Getenv("GCP_SERVICE_ACCOUNT_KEY")
	client, err := nlp.NewClient(context.Background(), key)
	if err != nil {
		log.Printf("Natural Language API client unavailable, reformat-only mode: %v", err)
		return nil
	}
	return nlp.NewAnalyzer(client)
}
