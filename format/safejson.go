package format

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ErrorHandling selects what happens when a response column does not hold
// valid JSON.
type ErrorHandling int

const (
	// ErrorHandlingLog logs the decode failure and substitutes an empty
	// result. This is the default.
	ErrorHandlingLog ErrorHandling = iota
	// ErrorHandlingFail aborts the row with an error.
	ErrorHandlingFail
	// ErrorHandlingIgnore silently substitutes an empty result.
	ErrorHandlingIgnore
)

var errorHandlingNames = [...]string{"LOG", "FAIL", "IGNORE"}

func (e ErrorHandling) String() string {
	if int(e) < len(errorHandlingNames) {
		return errorHandlingNames[e]
	}
	return "UNKNOWN"
}

// ParseErrorHandling maps a configuration string to an ErrorHandling mode.
// The empty string selects the default.
func ParseErrorHandling(s string) (ErrorHandling, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LOG":
		return ErrorHandlingLog, nil
	case "FAIL":
		return ErrorHandlingFail, nil
	case "IGNORE":
		return ErrorHandlingIgnore, nil
	}
	return ErrorHandlingLog, fmt.Errorf("unknown error handling mode: %q", s)
}

// OutputFormat selects between one consolidated JSON-valued column and
// multiple scalar columns.
type OutputFormat int

const (
	// MultipleColumns expands the response into one column per extracted
	// value. This is the default.
	MultipleColumns OutputFormat = iota
	// SingleColumn keeps the extracted list in one column.
	SingleColumn
)

// ParseOutputFormat maps a configuration string to an OutputFormat.
// The empty string selects the default.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "MULTIPLE_COLUMNS":
		return MultipleColumns, nil
	case "SINGLE_COLUMN":
		return SingleColumn, nil
	}
	return MultipleColumns, fmt.Errorf("unknown output format: %q", s)
}

// SafeJSONLoads decodes a raw response string, routing malformed JSON
// through the configured error handling mode. Except under FAIL, the caller
// always gets a usable (possibly empty) object back.
func SafeJSONLoads(raw string, errorHandling ErrorHandling) (map[string]any, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		switch errorHandling {
		case ErrorHandlingFail:
			return nil, fmt.Errorf("response is not valid JSON: %w", err)
		case ErrorHandlingIgnore:
		default:
			log.Printf("Response is not valid JSON, substituting empty result: %v", err)
		}
		return map[string]any{}, nil
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}
