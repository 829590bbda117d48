package models

import "glossa/format"

// ResponseStatus is the per-row outcome written to the cache: the augmented
// row on success, the error string on failure.
type ResponseStatus struct {
	PrimaryKey string     `json:"primary-key"`
	RowKey     int        `json:"row-key"`
	Status     string     `json:"status"`
	Row        format.Row `json:"row,omitempty"`
	Error      string     `json:"error,omitempty"`
}
