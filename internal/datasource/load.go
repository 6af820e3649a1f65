package datasource

import (
	"fmt"
	"io"

	"github.com/vanderheijden86/tablegraph/pkg/metrics"
)

// Open loads a provider for the file at path. table is required for SQLite
// sources and ignored otherwise. The returned closer releases any handle the
// provider keeps open.
func Open(path, table string) (Provider, io.Closer, error) {
	source, err := Describe(path, table)
	if err != nil {
		return nil, nil, err
	}
	return OpenSource(source)
}

// OpenSource loads a provider for a described source.
func OpenSource(source DataSource) (Provider, io.Closer, error) {
	defer metrics.Timer(metrics.DataLoad)()
	switch source.Type {
	case SourceTypeCSV:
		t, err := LoadCSVFile(source.Path)
		if err != nil {
			return nil, nil, err
		}
		return t, nopCloser{}, nil

	case SourceTypeJSON:
		t, err := LoadJSONFile(source.Path)
		if err != nil {
			return nil, nil, err
		}
		return t, nopCloser{}, nil

	case SourceTypeSQLite:
		r, err := NewSQLiteReader(source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		return r, r, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source.Type)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
