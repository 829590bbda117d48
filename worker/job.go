package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"glossa/cache"
	"glossa/format"
	"glossa/models"
	"glossa/nlp"
)

const (
	// Default number of Consumers for the pool
	DefaultNumConsumers = 4
	// Default size for the record queue channel
	DefaultBufferSize = 100
)

// Runner is the background job runner: a permanent consumer pool that feeds
// formatted rows to the cache writer.
type Runner struct {
	Cache     *cache.Cache
	Annotator Annotator

	// Shared resources (channels, Consumer pool control)
	recordsQ     chan Record
	statusQ      chan models.ResponseStatus
	numConsumers int

	// WaitGroup for tracking the permanent Consumer goroutines
	ConsumerWG sync.WaitGroup
	// WaitGroup for in-flight Publish goroutines; Close must not pull the
	// records queue from under a running job
	producerWG sync.WaitGroup
	mu         sync.Mutex
	closed     bool
}

// NewRunner initializes a Runner with its dependencies and the shared
// channels. A nil annotator restricts jobs to pre-computed responses.
func NewRunner(c *cache.Cache, annotator Annotator) *Runner {
	return &Runner{
		Cache:        c,
		Annotator:    annotator,
		recordsQ:     make(chan Record, DefaultBufferSize),
		statusQ:      make(chan models.ResponseStatus, DefaultBufferSize),
		numConsumers: DefaultNumConsumers,
	}
}

// Start launches the background goroutines (Consumers and cache writer).
func (r *Runner) Start() {
	log.Printf("Starting shared runner with %d Consumers...", r.numConsumers)

	// This goroutine listens to statusQ and writes to the cache
	go r.Cache.Listen(r.statusQ)

	// Start Consumer pool
	r.ConsumerWG.Add(r.numConsumers)
	for i := 1; i <= r.numConsumers; i++ {
		go Consumer(i, r.Annotator, r.recordsQ, r.statusQ, &r.ConsumerWG)
	}
}

// Close performs a graceful shutdown of the Consumer pool and closes the cache.
func (r *Runner) Close() {
	// Refuse new jobs, then let running ones finish publishing before the
	// queue closes
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.producerWG.Wait()

	// No more jobs; drain the pool
	close(r.recordsQ)

	// Wait for all Consumers to finish
	r.ConsumerWG.Wait()

	// Close the shared statusQ channel
	close(r.statusQ)

	// Close the cache
	if err := r.Cache.CloseCache(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}

	log.Println("Glossa runner gracefully shut down.")
}

// Run processes a file using the existing Consumer pool.
func (r *Runner) Run(filePath string) error {
	log.Printf("Dispatching job for file: %s", filePath)

	// File and Configuration Reading
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	conf, err := readConfiguration(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	primaryKey := conf.PrimaryKey

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		file.Close()
		return fmt.Errorf("runner is shut down")
	}
	r.producerWG.Add(1)
	r.mu.Unlock()

	// Publish closes the file when the stream ends
	go func() {
		defer r.producerWG.Done()
		Publish(primaryKey, file, conf, r.recordsQ)
	}()

	// Since the Consumers are permanent, we don't call wg.Wait() here.
	// The `Run` method immediately returns, allowing the caller to dispatch another job.

	return nil
}

// readConfiguration reads the first line of the file, decodes it into a
// Configuration struct and validates the enumerated options so a bad job is
// rejected before any row is queued.
func readConfiguration(f *os.File) (models.Configuration, error) {
	// Rewind the file pointer to the beginning before scanning
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return models.Configuration{}, fmt.Errorf("failed to rewind file pointer: %w", err)
	}

	scanner := bufio.NewScanner(f)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return models.Configuration{}, fmt.Errorf("error during file scan: %w", err)
		}
		return models.Configuration{}, fmt.Errorf("the file is empty or does not contain any records")
	}

	line := scanner.Text()
	var conf models.Configuration

	if err := json.Unmarshal([]byte(line), &conf); err != nil {
		return models.Configuration{}, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if _, err := nlp.ParseKind(conf.Kind); err != nil {
		return models.Configuration{}, err
	}
	if _, err := format.ParseErrorHandling(conf.ErrorHandling); err != nil {
		return models.Configuration{}, err
	}
	if _, err := format.ParseOutputFormat(conf.OutputFormat); err != nil {
		return models.Configuration{}, err
	}

	// Set offset for the next read to start at the second line (after the config line)
	// We advance the file pointer by the length of the line read + 1 for the newline character
	if _, err := f.Seek(int64(len(line))+1, io.SeekStart); err != nil {
		return models.Configuration{}, fmt.Errorf("failed to advance file pointer: %w", err)
	}

	conf.PrimaryKey = strings.TrimSuffix(filepath.Base(f.Name()), ".ndjson")

	return conf, nil
}
