package chart

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Validation errors. Render wraps them in a *ValidationError naming the
// offending input; match with errors.Is.
var (
	ErrNoSelection     = errors.New("no column selected")
	ErrEmptyColumn     = errors.New("column has no data")
	ErrNonNumeric      = errors.New("column has non-numeric values")
	ErrUnsupportedKind = errors.New("graph type cannot be drawn")
	ErrLengthMismatch  = errors.New("columns have different lengths")
)

// ValidationError reports a render request the renderer refused.
type ValidationError struct {
	Field  string // "kind", "x" or "y"
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid %s: %v: %s", e.Field, e.Err, e.Detail)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, format string, args ...any) error {
	return &ValidationError{Field: field, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// ScatterRadius is the datum radius derived from a point's coordinates.
func ScatterRadius(x, y float64) float64 {
	return (x+y)/100 + 8
}

// BarRecords zips an x column (any values, used as labels) with a numeric y
// column.
func BarRecords(xs, ys []model.Value) ([]model.Record, error) {
	if err := checkColumns(xs, ys); err != nil {
		return nil, err
	}
	records := make([]model.Record, len(xs))
	for i := range xs {
		if !ys[i].Numeric {
			return nil, invalid("y", ErrNonNumeric, "row %d is %q", i, ys[i].Text)
		}
		records[i] = model.Record{Label: xs[i].Text, X: xs[i].Num, Y: ys[i].Num}
	}
	return records, nil
}

// ScatterRecords zips two numeric columns and derives each point's radius.
func ScatterRecords(xs, ys []model.Value) ([]model.Record, error) {
	if err := checkColumns(xs, ys); err != nil {
		return nil, err
	}
	records := make([]model.Record, len(xs))
	for i := range xs {
		if !xs[i].Numeric {
			return nil, invalid("x", ErrNonNumeric, "row %d is %q", i, xs[i].Text)
		}
		if !ys[i].Numeric {
			return nil, invalid("y", ErrNonNumeric, "row %d is %q", i, ys[i].Text)
		}
		x, y := xs[i].Num, ys[i].Num
		records[i] = model.Record{Label: xs[i].Text, X: x, Y: y, R: ScatterRadius(x, y)}
	}
	return records, nil
}

func checkColumns(xs, ys []model.Value) error {
	if len(xs) == 0 {
		return invalid("x", ErrEmptyColumn, "")
	}
	if len(ys) == 0 {
		return invalid("y", ErrEmptyColumn, "")
	}
	if len(xs) != len(ys) {
		return invalid("y", ErrLengthMismatch, "x has %d values, y has %d", len(xs), len(ys))
	}
	return nil
}
