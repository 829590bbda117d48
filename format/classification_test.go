package format

import (
	"reflect"
	"testing"
)

func TestClassificationFormatterTopCategories(t *testing.T) {
	row := Row{
		"response": `{"categories":[
			{"name":"/Science","confidence":0.4},
			{"name":"/Pets & Animals","confidence":0.9},
			{"name":"/Food & Drink","confidence":0.6},
			{"name":"/Travel","confidence":0.1}
		]}`,
	}

	formatted, err := ClassificationFormatter{ResponseColumn: "response"}.Format(row)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	expected := []struct {
		name       string
		confidence float64
	}{
		{"/Pets & Animals", 0.9},
		{"/Food & Drink", 0.6},
		{"/Science", 0.4},
	}
	for n, want := range expected {
		nameColumn := "classification_api_category_" + string(rune('0'+n))
		confidenceColumn := nameColumn + "_confidence"
		if got := formatted[nameColumn]; got != want.name {
			t.Errorf("%s = %v, want %s", nameColumn, got, want.name)
		}
		if got := formatted[confidenceColumn]; got != want.confidence {
			t.Errorf("%s = %v, want %v", confidenceColumn, got, want.confidence)
		}
	}

	// Only the top-3 pairs are emitted by default.
	if _, present := formatted["classification_api_category_3"]; present {
		t.Error("unexpected fourth category column")
	}
}

func TestClassificationFormatterPadsMissingCategories(t *testing.T) {
	row := Row{
		"response": `{"categories":[
			{"name":"/Science","confidence":0.8},
			{"name":"/Travel","confidence":0.3}
		]}`,
	}

	formatted, err := ClassificationFormatter{ResponseColumn: "response"}.Format(row)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	if got := formatted["classification_api_category_2"]; got != "" {
		t.Errorf("padded name column = %v, want empty string", got)
	}
	value, present := formatted["classification_api_category_2_confidence"]
	if !present {
		t.Fatal("padded confidence column missing")
	}
	if value != nil {
		t.Errorf("padded confidence column = %v, want nil sentinel", value)
	}
}

func TestClassificationFormatterStableTieBreak(t *testing.T) {
	row := Row{
		"response": `{"categories":[
			{"name":"/First","confidence":0.5},
			{"name":"/Second","confidence":0.5},
			{"name":"/Third","confidence":0.5}
		]}`,
	}

	formatted, err := ClassificationFormatter{ResponseColumn: "response"}.Format(row)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	// Equal confidences keep their input order.
	for n, want := range []string{"/First", "/Second", "/Third"} {
		column := "classification_api_category_" + string(rune('0'+n))
		if got := formatted[column]; got != want {
			t.Errorf("%s = %v, want %s", column, got, want)
		}
	}
}

func TestClassificationFormatterSingleColumn(t *testing.T) {
	row := Row{"response": `{"categories":[{"name":"/Science","confidence":0.8}]}`}

	formatted, err := ClassificationFormatter{
		ResponseColumn: "response",
		OutputFormat:   SingleColumn,
	}.Format(row)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	categories, ok := formatted["classification_api_categories"].([]any)
	if !ok || len(categories) != 1 {
		t.Fatalf("categories column = %v, want raw one-element list", formatted["classification_api_categories"])
	}
}

func TestClassificationFormatterCustomN(t *testing.T) {
	row := Row{"response": `{"categories":[{"name":"/Science","confidence":0.8}]}`}

	formatted, err := ClassificationFormatter{
		ResponseColumn: "response",
		NumCategories:  5,
	}.Format(row)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	columns := []string{
		"classification_api_category_0",
		"classification_api_category_1",
		"classification_api_category_2",
		"classification_api_category_3",
		"classification_api_category_4",
	}
	values := make([]any, 0, len(columns))
	for _, column := range columns {
		value, present := formatted[column]
		if !present {
			t.Fatalf("column %s missing", column)
		}
		values = append(values, value)
	}
	if !reflect.DeepEqual(values, []any{"/Science", "", "", "", ""}) {
		t.Errorf("category columns = %v", values)
	}
}

func TestClassificationFormatterMalformedJSON(t *testing.T) {
	formatted, err := ClassificationFormatter{
		ResponseColumn: "response",
		ErrorHandling:  ErrorHandlingIgnore,
	}.Format(Row{"response": `{{`})
	if err != nil {
		t.Fatalf("IGNORE mode must not return an error, got: %v", err)
	}
	if got := formatted["classification_api_category_0"]; got != "" {
		t.Errorf("category column = %v, want empty-string sentinel", got)
	}

	_, err = ClassificationFormatter{
		ResponseColumn: "response",
		ErrorHandling:  ErrorHandlingFail,
	}.Format(Row{"response": `{{`})
	if err == nil {
		t.Error("FAIL mode must return an error for malformed JSON")
	}
}
