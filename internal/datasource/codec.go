package datasource

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// ParseColumns decodes a provider's Columns() JSON object. Key order is
// preserved.
func ParseColumns(data string) (model.ColumnMap, error) {
	var types map[string]string
	if err := json.Unmarshal([]byte(data), &types); err != nil {
		return nil, fmt.Errorf("parsing columns: %w", err)
	}
	keys, err := objectKeys([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("parsing columns: %w", err)
	}
	columns := make(model.ColumnMap, 0, len(keys))
	for _, k := range keys {
		columns = append(columns, model.Column{Name: k, Type: model.ColumnType(types[k])})
	}
	return columns, nil
}

// objectKeys returns the keys of a JSON object in document order. JSON is a
// subset of YAML, and yaml.Node keeps mapping order where Go maps do not.
func objectKeys(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("expected a JSON object")
	}
	obj := doc.Content[0]
	if obj.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a JSON object")
	}
	keys := make([]string, 0, len(obj.Content)/2)
	seen := make(map[string]bool, len(obj.Content)/2)
	for i := 0; i+1 < len(obj.Content); i += 2 {
		k := obj.Content[i].Value
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}

// EncodeColumns renders a ColumnMap as the JSON object Columns() returns.
func EncodeColumns(columns model.ColumnMap) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return "", err
		}
		v, err := json.Marshal(string(c.Type))
		if err != nil {
			return "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// ParseColumnData decodes a provider's ColumnData() JSON array. Numbers and
// numeric strings become numeric values; null becomes an empty value.
func ParseColumnData(data string) ([]model.Value, error) {
	var raw []any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing column data: %w", err)
	}
	values := make([]model.Value, len(raw))
	for i, r := range raw {
		switch v := r.(type) {
		case nil:
			values[i] = model.Value{}
		case float64:
			values[i] = model.NumberValue(v)
		case string:
			values[i] = model.TextValue(v)
		case bool:
			values[i] = model.Value{Text: strconv.FormatBool(v)}
		default:
			return nil, fmt.Errorf("parsing column data: element %d has unsupported type %T", i, r)
		}
	}
	return values, nil
}

// EncodeColumnData renders values as the JSON array ColumnData() returns.
// Numeric columns emit numbers (null for blanks and non-finite values);
// other columns emit text.
func EncodeColumnData(typ model.ColumnType, values []model.Value) (string, error) {
	out := make([]any, len(values))
	for i, v := range values {
		switch {
		case typ.IsNumeric() && v.Numeric && !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0):
			out[i] = v.Num
		case typ.IsNumeric():
			out[i] = nil
		default:
			out[i] = v.Text
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding column data: %w", err)
	}
	return string(b), nil
}

// InferType reports Number when every non-blank value is numeric and at
// least one value is present.
func InferType(values []model.Value) model.ColumnType {
	seen := false
	for _, v := range values {
		if v.Text == "" && !v.Numeric {
			continue
		}
		if !v.Numeric {
			return model.TypeText
		}
		seen = true
	}
	if !seen {
		return model.TypeText
	}
	return model.TypeNumber
}
