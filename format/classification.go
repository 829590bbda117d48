package format

import (
	"fmt"
	"sort"
)

// DefaultClassificationPrefix is the column prefix for text classification
// output.
const DefaultClassificationPrefix = "classification_api"

// DefaultNumCategories is how many top categories are expanded into column
// pairs when none is configured.
const DefaultNumCategories = 3

// ClassificationFormatter reshapes a raw text classification response into
// flat columns: either one column holding the raw category list, or the
// top-N categories by confidence as (name, confidence) column pairs.
type ClassificationFormatter struct {
	// ResponseColumn is the existing column holding the raw JSON response.
	ResponseColumn string
	OutputFormat   OutputFormat
	// NumCategories defaults to DefaultNumCategories.
	NumCategories int
	// ColumnPrefix defaults to DefaultClassificationPrefix.
	ColumnPrefix  string
	ErrorHandling ErrorHandling
}

// Format augments the row with category columns and returns it. When fewer
// categories exist than requested, the remaining slots get empty-string and
// nil sentinels. Ties on confidence keep their input order.
func (f ClassificationFormatter) Format(row Row) (Row, error) {
	raw, _ := row[f.ResponseColumn].(string)
	response, err := SafeJSONLoads(raw, f.ErrorHandling)
	if err != nil {
		return row, err
	}

	prefix := f.ColumnPrefix
	if prefix == "" {
		prefix = DefaultClassificationPrefix
	}

	if f.OutputFormat == SingleColumn {
		column := GenerateUnique("categories", row, prefix)
		if categories, ok := response["categories"]; ok {
			row[column] = categories
		} else {
			row[column] = ""
		}
		return row, nil
	}

	categories := asObjectList(response["categories"])
	sort.SliceStable(categories, func(i, j int) bool {
		ci, _ := asFloat(categories[i]["confidence"])
		cj, _ := asFloat(categories[j]["confidence"])
		return ci > cj
	})

	numCategories := f.NumCategories
	if numCategories <= 0 {
		numCategories = DefaultNumCategories
	}

	for n := 0; n < numCategories; n++ {
		nameColumn := GenerateUnique(fmt.Sprintf("category_%d", n), row, prefix)
		confidenceColumn := GenerateUnique(fmt.Sprintf("category_%d_confidence", n), row, prefix)
		if n < len(categories) {
			name, _ := categories[n]["name"].(string)
			row[nameColumn] = name
			row[confidenceColumn] = categories[n]["confidence"]
		} else {
			row[nameColumn] = ""
			row[confidenceColumn] = nil
		}
	}
	return row, nil
}
