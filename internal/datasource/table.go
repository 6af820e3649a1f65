package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Table is an in-memory provider. It is immutable after construction and
// safe for concurrent reads.
type Table struct {
	columns model.ColumnMap
	cells   map[string][]model.Value
}

// NewTable builds a table from named columns. Types are inferred from the
// values when types[name] is empty.
func NewTable(names []string, data map[string][]model.Value, types map[string]model.ColumnType) *Table {
	t := &Table{cells: make(map[string][]model.Value, len(names))}
	for _, name := range names {
		values := data[name]
		typ := types[name]
		if typ == "" {
			typ = InferType(values)
		}
		t.columns = append(t.columns, model.Column{Name: name, Type: typ})
		t.cells[name] = append([]model.Value(nil), values...)
	}
	return t
}

// NumberColumns is a convenience constructor for all-numeric tables.
func NumberColumns(names []string, data map[string][]float64) *Table {
	values := make(map[string][]model.Value, len(data))
	types := make(map[string]model.ColumnType, len(data))
	for _, name := range names {
		for _, f := range data[name] {
			values[name] = append(values[name], model.NumberValue(f))
		}
		types[name] = model.TypeNumber
	}
	return NewTable(names, values, types)
}

// ColumnMap returns the table's columns.
func (t *Table) ColumnMap() model.ColumnMap {
	return append(model.ColumnMap(nil), t.columns...)
}

// Columns implements Provider.
func (t *Table) Columns() (string, error) {
	return EncodeColumns(t.columns)
}

// ColumnData implements Provider.
func (t *Table) ColumnData(name string) (string, error) {
	col, ok := t.columns.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return EncodeColumnData(col.Type, t.cells[name])
}

// ReadCSV reads a table whose first record is the header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("reading csv: empty input")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	data := make(map[string][]model.Value, len(names))
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		for i, name := range names {
			cell := ""
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			data[name] = append(data[name], model.TextValue(cell))
		}
	}
	return NewTable(names, data, nil), nil
}

// LoadCSVFile reads a CSV table from disk.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadJSON reads a table from a JSON array of flat objects. Column order
// follows the keys of the first object, then any new keys in later objects.
func ReadJSON(r io.Reader) (*Table, error) {
	var rows []json.RawMessage
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing json table: %w", err)
	}

	var names []string
	known := make(map[string]bool)
	data := make(map[string][]model.Value)
	for i, raw := range rows {
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing json row %d: %w", i, err)
		}
		for _, k := range keys {
			if !known[k] {
				known[k] = true
				names = append(names, k)
				// backfill rows that predate this key
				data[k] = make([]model.Value, i)
			}
		}

		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("parsing json row %d: %w", i, err)
		}
		for _, name := range names {
			data[name] = append(data[name], cellValue(obj[name]))
		}
	}
	return NewTable(names, data, nil), nil
}

// LoadJSONFile reads a JSON table from disk.
func LoadJSONFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func cellValue(v any) model.Value {
	switch x := v.(type) {
	case nil:
		return model.Value{}
	case float64:
		return model.NumberValue(x)
	case string:
		return model.TextValue(x)
	default:
		return model.Value{Text: fmt.Sprint(x)}
	}
}
