// Package model holds the data types shared by the navigator, the renderer
// and the data providers.
package model

import (
	"math"
	"strconv"
	"strings"
)

// ColumnType is the declared type of a column as reported by a data provider.
type ColumnType string

const (
	// TypeNumber is the only type treated as numeric.
	TypeNumber ColumnType = "Number"
	// TypeText is what providers report for categorical columns.
	TypeText ColumnType = "Text"
)

// IsNumeric reports whether values of this type can feed a linear scale.
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumber
}

// Column is one entry of a ColumnMap.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// ColumnMap is the ordered column name to type mapping supplied by a
// provider. Declaration order is preserved so tabs list columns the way the
// source declares them.
type ColumnMap []Column

// Names returns the column names in declaration order.
func (m ColumnMap) Names() []string {
	names := make([]string, len(m))
	for i, c := range m {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the column with the given name.
func (m ColumnMap) Lookup(name string) (Column, bool) {
	for _, c := range m {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// TypeOf returns the declared type of name, or "" when unknown.
func (m ColumnMap) TypeOf(name string) ColumnType {
	c, _ := m.Lookup(name)
	return c.Type
}

// Value is a single cell of column data.
type Value struct {
	Text    string
	Num     float64
	Numeric bool
}

// NumberValue builds a numeric Value.
func NumberValue(f float64) Value {
	return Value{Text: strconv.FormatFloat(f, 'f', -1, 64), Num: f, Numeric: true}
}

// TextValue builds a Value from text, detecting numeric strings. NaN and
// infinities stay text.
func TextValue(s string) Value {
	v := Value{Text: s}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		v.Num = f
		v.Numeric = true
	}
	return v
}

// String returns the text form of the value.
func (v Value) String() string {
	return v.Text
}

// Record is one renderer-facing datum. Label carries the x value's text form
// for ordinal scales; R is only populated for scatter plots.
type Record struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r,omitempty"`
}

// GraphKind names an entry of the graph type tab.
type GraphKind string

const (
	KindBar     GraphKind = "Bar Graph"
	KindLine    GraphKind = "Line Graph"
	KindScatter GraphKind = "Scatter Plot"
	KindLoad    GraphKind = "Load Graph"
)

// GraphKinds lists the graph tab entries in display order.
var GraphKinds = []GraphKind{KindBar, KindLine, KindScatter, KindLoad}

// IsValid returns true if the kind is one of the known entries.
func (k GraphKind) IsValid() bool {
	switch k {
	case KindBar, KindLine, KindScatter, KindLoad:
		return true
	}
	return false
}

// Drawable reports whether the renderer can draw this kind.
func (k GraphKind) Drawable() bool {
	return k == KindBar || k == KindScatter
}

// NeedsAxes reports whether choosing this kind continues to axis selection.
func (k GraphKind) NeedsAxes() bool {
	return k == KindBar || k == KindScatter
}
