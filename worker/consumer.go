package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"glossa/format"
	"glossa/models"
	"glossa/nlp"
)

// DefaultResponseColumn is where the raw API response lands when the job
// configuration does not name a column.
const DefaultResponseColumn = "api_response"

// Annotator is the per-row analysis call. *nlp.Analyzer implements it; tests
// substitute a fake. A nil Annotator restricts jobs to rows that already
// carry a response column.
type Annotator interface {
	Analyze(ctx context.Context, kind nlp.Kind, text string) (string, error)
}

// Consumer processes records from the recordsQ, runs the task, and sends the
// result to the statusQ.
func Consumer(id int, annotator Annotator, recordsQ <-chan Record, chStatus chan<- models.ResponseStatus, wg *sync.WaitGroup) {
	defer wg.Done()

	log.Printf("Consumer %d started\n", id)

	for rec := range recordsQ {
		row, err := Task(annotator, rec)
		statusString := "success"
		errString := ""

		if err != nil {
			statusString = "failed"
			errString = err.Error()
			log.Printf("Consumer %d failed to process %s:%d. Error: %s",
				id, rec.PrimaryKey, rec.RowKey, errString)
		}

		rowsProcessedTotal.WithLabelValues(statusString, rec.Configuration.Kind).Inc()

		// Send the final status to the cache writer channel.
		chStatus <- models.ResponseStatus{
			PrimaryKey: rec.PrimaryKey,
			RowKey:     rec.RowKey,
			Status:     statusString,
			Row:        row,
			Error:      errString,
		}
	}
	log.Printf("Consumer %d finished\n", id)
}

// Task runs one row through analysis and formatting. Rows that already carry
// the response column skip the API call and are only reshaped.
func Task(annotator Annotator, rec Record) (format.Row, error) {
	conf := rec.Configuration
	row := rec.Row
	if row == nil {
		row = format.Row{}
	}

	kind, err := nlp.ParseKind(conf.Kind)
	if err != nil {
		return nil, err
	}

	responseColumn := conf.ResponseColumn
	if responseColumn == "" {
		responseColumn = DefaultResponseColumn
	}

	if _, ok := row[responseColumn]; !ok {
		raw, err := annotate(annotator, kind, conf.TextColumn, responseColumn, row)
		if err != nil {
			return nil, err
		}
		row[responseColumn] = raw
	}

	errorHandling, err := format.ParseErrorHandling(conf.ErrorHandling)
	if err != nil {
		return nil, err
	}
	outputFormat, err := format.ParseOutputFormat(conf.OutputFormat)
	if err != nil {
		return nil, err
	}

	switch kind {
	case nlp.KindEntities:
		return format.EntityFormatter{
			ResponseColumn: responseColumn,
			OutputFormat:   outputFormat,
			ColumnPrefix:   conf.ColumnPrefix,
			ErrorHandling:  errorHandling,
		}.Format(row)
	case nlp.KindSentiment:
		return format.SentimentFormatter{
			ResponseColumn: responseColumn,
			Scale:          format.Scale(conf.SentimentScale),
			ColumnPrefix:   conf.ColumnPrefix,
			ErrorHandling:  errorHandling,
		}.Format(row)
	default: // nlp.KindClassification, ParseKind admits nothing else
		return format.ClassificationFormatter{
			ResponseColumn: responseColumn,
			OutputFormat:   outputFormat,
			NumCategories:  conf.NumCategories,
			ColumnPrefix:   conf.ColumnPrefix,
			ErrorHandling:  errorHandling,
		}.Format(row)
	}
}

// annotate performs the API call for a row that has no response yet.
func annotate(annotator Annotator, kind nlp.Kind, textColumn, responseColumn string, row format.Row) (string, error) {
	if annotator == nil {
		return "", fmt.Errorf("row has no %q column and no API client is configured", responseColumn)
	}
	text, _ := row[textColumn].(string)
	if text == "" {
		return "", fmt.Errorf("row has no text under column %q", textColumn)
	}

	start := time.Now()
	raw, err := annotator.Analyze(context.Background(), kind, text)
	apiCallDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		apiCallFailuresTotal.WithLabelValues(string(kind)).Inc()
		return "", err
	}
	return raw, nil
}
