package worker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log"
	"os"

	"glossa/format"
	"glossa/models"
)

// Record matches the NDJSON structure of one uploaded row.
type Record struct {
	PrimaryKey    string
	RowKey        int        `json:"id,omitempty"`
	Row           format.Row `json:"row"`
	Configuration models.Configuration
}

// maxLineSize bounds a single NDJSON line; raw API responses embedded in a
// row can far exceed bufio's default.
const maxLineSize = 1024 * 1024

// Publish reads rows from the NDJSON file line by line and sends them to the
// channel. A line that does not decode is logged and skipped; the rows after
// it are still queued. The file is closed when the stream ends.
func Publish(primaryKey string, f *os.File, conf models.Configuration, ch chan<- Record) {
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("skipping malformed row line: %v", err)
			continue
		}

		rec.PrimaryKey = primaryKey
		rec.Configuration = conf
		ch <- rec
	}
	if err := scanner.Err(); err != nil {
		log.Printf("error reading rows: %v", err)
	}
}
