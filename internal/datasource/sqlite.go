package datasource

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// SQLiteReader provides read access to one table of a SQLite database.
type SQLiteReader struct {
	db      *sql.DB
	path    string
	table   string
	columns model.ColumnMap
}

// NewSQLiteReader opens a SQLite database for reading and loads the table's
// column list.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	if source.Table == "" {
		return nil, ErrNoTable
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	r := &SQLiteReader{db: db, path: source.Path, table: source.Table}
	if err := r.loadColumns(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteReader) loadColumns() error {
	rows, err := r.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(r.table)))
	if err != nil {
		return fmt.Errorf("reading table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			declTyp string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &declTyp, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("reading table info: %w", err)
		}
		r.columns = append(r.columns, model.Column{Name: name, Type: affinityType(declTyp)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading table info: %w", err)
	}
	if len(r.columns) == 0 {
		return fmt.Errorf("table %q not found or has no columns", r.table)
	}
	return nil
}

// affinityType maps a declared column type to a ColumnType following the
// order of SQLite's affinity rules. Declarations that SQLite would give
// NUMERIC affinity only by default (DATE, BOOLEAN) stay text.
func affinityType(decl string) model.ColumnType {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "INT"):
		return model.TypeNumber
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return model.TypeText
	}
	for _, marker := range []string{"REAL", "FLOA", "DOUB", "NUM", "DEC"} {
		if strings.Contains(d, marker) {
			return model.TypeNumber
		}
	}
	return model.TypeText
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ColumnMap returns the table's columns.
func (r *SQLiteReader) ColumnMap() model.ColumnMap {
	return append(model.ColumnMap(nil), r.columns...)
}

// Columns implements Provider.
func (r *SQLiteReader) Columns() (string, error) {
	return EncodeColumns(r.columns)
}

// ColumnData implements Provider. Rows come back in rowid order.
func (r *SQLiteReader) ColumnData(name string) (string, error) {
	col, ok := r.columns.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", quoteIdent(name), quoteIdent(r.table))
	rows, err := r.db.Query(query)
	if err != nil {
		return "", fmt.Errorf("querying column %q: %w", name, err)
	}
	defer rows.Close()

	var values []model.Value
	for rows.Next() {
		var cell any
		if err := rows.Scan(&cell); err != nil {
			return "", fmt.Errorf("scanning column %q: %w", name, err)
		}
		values = append(values, sqlValue(cell))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("querying column %q: %w", name, err)
	}
	return EncodeColumnData(col.Type, values)
}

func sqlValue(cell any) model.Value {
	switch v := cell.(type) {
	case nil:
		return model.Value{}
	case int64:
		return model.NumberValue(float64(v))
	case float64:
		return model.NumberValue(v)
	case []byte:
		return model.TextValue(string(v))
	case string:
		return model.TextValue(v)
	default:
		return model.TextValue(fmt.Sprint(v))
	}
}
