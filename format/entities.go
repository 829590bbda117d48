package format

import (
	"sort"
	"strings"

	"cloud.google.com/go/language/apiv2/languagepb"
)

// DefaultEntityPrefix is the column prefix for entity recognition output.
const DefaultEntityPrefix = "ner_api"

// EntityTypes returns the entity type labels supported by the Natural
// Language API, in enum order. The list comes from the client library's
// schema metadata so it tracks the API, not hardcoded literals.
func EntityTypes() []string {
	numbers := make([]int32, 0, len(languagepb.Entity_Type_name))
	for n := range languagepb.Entity_Type_name {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	types := make([]string, 0, len(numbers))
	for _, n := range numbers {
		types = append(types, languagepb.Entity_Type_name[n])
	}
	return types
}

// EntityFormatter reshapes a raw entity recognition response into flat
// columns: either one column holding the raw entity list, or one column per
// entity type holding the names of matching entities.
type EntityFormatter struct {
	// ResponseColumn is the existing column holding the raw JSON response.
	ResponseColumn string
	OutputFormat   OutputFormat
	// ColumnPrefix defaults to DefaultEntityPrefix.
	ColumnPrefix  string
	ErrorHandling ErrorHandling
}

// Format augments the row with entity columns and returns it. The row is
// mutated in place.
func (f EntityFormatter) Format(row Row) (Row, error) {
	raw, _ := row[f.ResponseColumn].(string)
	response, err := SafeJSONLoads(raw, f.ErrorHandling)
	if err != nil {
		return row, err
	}

	prefix := f.ColumnPrefix
	if prefix == "" {
		prefix = DefaultEntityPrefix
	}

	if f.OutputFormat == SingleColumn {
		entityColumn := GenerateUnique("entities", row, prefix)
		if entities, ok := response["entities"]; ok {
			row[entityColumn] = entities
		} else {
			row[entityColumn] = ""
		}
		return row, nil
	}

	entities := asObjectList(response["entities"])
	for _, entityType := range EntityTypes() {
		column := GenerateUnique("entity_type_"+strings.ToLower(entityType), row, prefix)
		var names []string
		for _, entity := range entities {
			if t, _ := entity["type"].(string); t != entityType {
				continue
			}
			name, _ := entity["name"].(string)
			names = append(names, name)
		}
		if len(names) == 0 {
			row[column] = ""
		} else {
			row[column] = names
		}
	}
	return row, nil
}
