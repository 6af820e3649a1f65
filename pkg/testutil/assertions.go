package testutil

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// AssertColumns checks the provider's column names, order and types.
func AssertColumns(t *testing.T, p datasource.Provider, want model.ColumnMap) {
	t.Helper()

	raw, err := p.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	got, err := datasource.ParseColumns(raw)
	if err != nil {
		t.Fatalf("ParseColumns(%s): %v", raw, err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d columns %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// AssertColumnData checks one column's values against their text forms.
func AssertColumnData(t *testing.T, p datasource.Provider, name string, want []string) {
	t.Helper()

	raw, err := p.ColumnData(name)
	if err != nil {
		t.Fatalf("ColumnData(%q): %v", name, err)
	}
	values, err := datasource.ParseColumnData(raw)
	if err != nil {
		t.Fatalf("ParseColumnData(%s): %v", raw, err)
	}
	if len(values) != len(want) {
		t.Fatalf("%s has %d values, want %d", name, len(values), len(want))
	}
	for i, v := range values {
		if v.Text != want[i] {
			t.Errorf("%s[%d] = %q, want %q", name, i, v.Text, want[i])
		}
	}
}
