package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	language "cloud.google.com/go/language/apiv2"
	"google.golang.org/api/option"
)

// NewClient builds a Natural Language API client from a JSON-serialized
// service account key. An empty key falls back to ambient credential
// resolution (GOOGLE_APPLICATION_CREDENTIALS, metadata server, ...).
func NewClient(ctx context.Context, serviceAccountKey string) (*language.Client, error) {
	if serviceAccountKey == "" {
		return language.NewClient(ctx)
	}

	var key map[string]any
	if err := json.Unmarshal([]byte(serviceAccountKey), &key); err != nil {
		log.Printf("Failed to decode service account key: %v", err)
		return nil, fmt.Errorf("GCP service account key is not valid JSON")
	}
	if email, ok := key["client_email"].(string); ok && email != "" {
		log.Printf("GCP service account loaded with email: %s", email)
	} else {
		log.Printf("Credentials loaded")
	}

	return language.NewClient(ctx, option.WithCredentialsJSON([]byte(serviceAccountKey)))
}
