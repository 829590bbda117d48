package format

import "fmt"

// Row is a single record of tabular data, keyed by column name. Formatters
// mutate it in place by adding derived columns; existing keys are never
// touched.
type Row map[string]any

// GenerateUnique builds a column name from a prefix and a semantic suffix,
// deduplicated against the keys already present in the row.
func GenerateUnique(name string, existing Row, prefix string) string {
	base := name
	if prefix != "" {
		base = prefix + "_" + name
	}

	candidate := base
	for i := 2; ; i++ {
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// asObjectList extracts a list of JSON objects from a decoded response value.
// Anything that is not a list of objects yields an empty slice.
func asObjectList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

// asFloat reads a decoded JSON number. encoding/json decodes all numbers as
// float64, but integers coming from hand-built rows are accepted too.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
