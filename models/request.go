package models

// Configuration is the first NDJSON line of a job upload. It selects which
// analysis endpoint the rows target and how the responses are reshaped into
// columns.
type Configuration struct {
	PrimaryKey string `json:"primarykey"`
	// Kind is the analysis endpoint: entities, sentiment or classification.
	Kind string `json:"kind"`
	// TextColumn holds the text to analyze for rows without a response yet.
	TextColumn string `json:"text_column"`
	// ResponseColumn holds the raw API response. Rows that already carry it
	// are reshaped without calling the API.
	ResponseColumn string `json:"response_column"`
	// OutputFormat is SINGLE_COLUMN or MULTIPLE_COLUMNS (default).
	OutputFormat string `json:"output_format"`
	// ErrorHandling is LOG (default), FAIL or IGNORE.
	ErrorHandling string `json:"error_handling"`
	// SentimentScale is binary, ternary (default), quinary or
	// rescale_zero_to_one. Anything else passes the score through.
	SentimentScale string `json:"sentiment_scale"`
	// ColumnPrefix overrides the per-endpoint default prefix.
	ColumnPrefix string `json:"column_prefix"`
	// NumCategories is how many top categories to expand (default 3).
	NumCategories int `json:"num_categories"`
}
