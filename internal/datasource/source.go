// Package datasource implements the data provider boundary the navigator and
// renderer depend on: a column name to type mapping and per-column value
// arrays, both exchanged as JSON text. Providers exist for in-memory tables,
// CSV files, JSON record files and SQLite tables.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Provider is the data boundary. Columns returns a JSON object mapping
// column name to type; ColumnData returns the JSON array of a column.
type Provider interface {
	Columns() (string, error)
	ColumnData(name string) (string, error)
}

// Common errors.
var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnsupportedSource = errors.New("unsupported data source")
	ErrNoTable           = errors.New("sqlite source needs a table name")
)

// SourceType identifies the type of data source.
type SourceType string

const (
	SourceTypeCSV    SourceType = "csv"
	SourceTypeJSON   SourceType = "json"
	SourceTypeSQLite SourceType = "sqlite"
)

// DataSource describes a data file on disk.
type DataSource struct {
	Type SourceType `json:"type"`
	Path string     `json:"path"`
	// Table names the SQLite table; ignored for other types.
	Table   string    `json:"table,omitempty"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	if s.Table != "" {
		return fmt.Sprintf("%s:%s (%s, %d bytes)", s.Path, s.Table, s.Type, s.Size)
	}
	return fmt.Sprintf("%s (%s, %d bytes)", s.Path, s.Type, s.Size)
}

// DetectType infers the source type from the file extension.
func DetectType(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SourceTypeCSV, nil
	case ".json":
		return SourceTypeJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, filepath.Ext(path))
}

// Describe stats path and returns its DataSource.
func Describe(path, table string) (DataSource, error) {
	typ, err := DetectType(path)
	if err != nil {
		return DataSource{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat data source: %w", err)
	}
	if typ == SourceTypeSQLite && table == "" {
		return DataSource{}, ErrNoTable
	}
	return DataSource{Type: typ, Path: abs, Table: table, ModTime: info.ModTime(), Size: info.Size()}, nil
}
