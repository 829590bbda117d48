package nlp

import (
	"context"
	"fmt"
	"strings"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"golang.org/x/text/unicode/norm"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Kind identifies which analysis endpoint a job targets.
type Kind string

const (
	KindEntities       Kind = "entities"
	KindSentiment      Kind = "sentiment"
	KindClassification Kind = "classification"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindEntities:
		return KindEntities, nil
	case KindSentiment:
		return KindSentiment, nil
	case KindClassification:
		return KindClassification, nil
	}
	return "", fmt.Errorf("unknown analysis kind: %q", s)
}

// Analyzer runs single-document analysis calls and renders responses to the
// raw JSON strings the formatters consume.
type Analyzer struct {
	client *language.Client
}

// NewAnalyzer wraps an API client. See NewClient for construction.
func NewAnalyzer(client *language.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze sends the text to the endpoint selected by kind and returns the
// response as a JSON string with the REST schema's field names
// (e.g. "documentSentiment", "entities", "categories").
func (a *Analyzer) Analyze(ctx context.Context, kind Kind, text string) (string, error) {
	document := &languagepb.Document{
		Source: &languagepb.Document_Content{Content: norm.NFC.String(text)},
		Type:   languagepb.Document_PLAIN_TEXT,
	}

	var response proto.Message
	var err error
	switch kind {
	case KindEntities:
		response, err = a.client.AnalyzeEntities(ctx, &languagepb.AnalyzeEntitiesRequest{
			Document:     document,
			EncodingType: languagepb.EncodingType_UTF8,
		})
	case KindSentiment:
		response, err = a.client.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
			Document:     document,
			EncodingType: languagepb.EncodingType_UTF8,
		})
	case KindClassification:
		response, err = a.client.ClassifyText(ctx, &languagepb.ClassifyTextRequest{
			Document: document,
		})
	default:
		return "", fmt.Errorf("unknown analysis kind: %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("%s analysis failed: %w", kind, err)
	}

	raw, err := protojson.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s response: %w", kind, err)
	}
	return string(raw), nil
}
